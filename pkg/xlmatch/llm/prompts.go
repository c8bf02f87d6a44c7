package llm

const verifySystemPrompt = `You are a document verification assistant.
Your job is to determine whether each numeric input from an Excel sheet is justified by the provided source document.
Use semantic understanding, and consider units, value conversions, and contextual meaning.`

const verifyExamples = `Here are some examples:

EXAMPLE 1:
- Value: 1000
- Hint: 単位: m
- PDF Text: この道路の長さは1kmである。
Expected Match: true
Reason: 1km = 1000m, which matches the value.
Matched Text: "1km"

EXAMPLE 2:
- Value: 500
- Hint: 金額
- PDF Text: 報酬は月額500円である。
Expected Match: true
Reason: The PDF mentions 500円 which matches the input.
Matched Text: "500円"

EXAMPLE 3:
- Value: 200
- Hint: 重さ, kg
- PDF Text: 180kgと記載されている。
Expected Match: false
Reason: The input value (200kg) differs from the source (180kg).

EXAMPLE 4:
- Value: 300
- Hint: 単位: ml
- PDF Text: この液体の体積は300cm3である。
Expected Match: true
Reason: 300ml = 300cm3, which matches the value.
Matched Text: "300cm3"

Now verify the following inputs against the document.`

const verifyRequestTemplate = "### Source Document\n```\n%s\n```\n\n### Excel Inputs\n```\n%s\n```\n"

const verifyFormat = `Answer with a single JSON object and nothing else:
{"results": [{"cell": "<cell id>", "match": true|false, "reason": "<short explanation>", "matched_text": "<literal text copied from the document, only when match is true>", "source_path": "<source_path of the document containing matched_text>"}]}
Return exactly one result per input cell, using the cell ids given above.
matched_text must occur verbatim in the source document.`

const extractPromptTemplate = `You are an expert data extraction tool capable of analyzing HTML representations of spreadsheets and extracting specific information based on class attributes.

Here is an HTML table representing an Excel sheet:
` + "```html\n%s\n```" + `

Your task is to find all <td> elements that have the class "input".
For each such cell, extract:
- "cell": the Excel cell reference built from the data-col attribute (column letter) and the data-row attribute (row number). For example data-col="B" and data-row="2" is "B2".
- "value": the numeric value of the cell content, as a JSON number.
- "metadata": a list of strings that describe or give context to this value, inferred from surrounding cells (headers, row labels). Prioritize extracting units if they are present near the cell. Use [] when nothing is apparent.

Answer with a single JSON object and nothing else:
{"inputs": [{"cell": "B2", "value": 1000, "metadata": ["長さ", "m"]}]}`
