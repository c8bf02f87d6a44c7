// Package main provides the CLI entry point for xlmatch-go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/xlmatch-go/internal/config"
	"github.com/ukaji3/xlmatch-go/internal/logging"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/analyze"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/llm"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/markup"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/output"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/textnorm"
)

var (
	envFile   string
	logLevel  string
	logFormat string

	sheetName     string
	mode          string
	printAreaOnly bool
	outputPath    string
	pretty        bool

	excelPDF    string
	sources     []string
	symbols     string
	analysisDir string
	reportPath  string
	dryRun      bool

	cfg    *config.Config
	logger *logrus.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlmatch",
		Short: "Verify calculation sheet inputs against source PDFs",
		Long: `xlmatch extracts the numeric inputs of an Excel calculation sheet,
checks them against analyzed source PDFs with a language model, and marks
every verified value on the sheet PDF and on the source PDFs.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (default: XLMATCH_LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json (default: XLMATCH_LOG_FORMAT or text)")

	runCmd := &cobra.Command{
		Use:   "run [input.xlsx]",
		Short: "Extract, verify and mark up",
		Args:  cobra.ExactArgs(1),
		RunE:  runPipeline,
	}
	addExtractFlags(runCmd)
	runCmd.Flags().StringVar(&excelPDF, "excel-pdf", "", "PDF rendering of the sheet (required)")
	runCmd.Flags().StringSliceVar(&sources, "source", nil, "Source PDF (repeatable, required)")
	runCmd.Flags().StringVar(&symbols, "symbols", "", "Marker alphabet (default: XLMATCH_SYMBOLS)")
	runCmd.Flags().StringVar(&analysisDir, "analysis-dir", "", "Layout analysis cache directory (default: XLMATCH_ANALYSIS_DIR)")
	runCmd.Flags().StringVar(&reportPath, "report", "", "Also write the run report as JSON to this file")
	runCmd.MarkFlagRequired("excel-pdf")
	runCmd.MarkFlagRequired("source")

	extractCmd := &cobra.Command{
		Use:   "extract [input.xlsx]",
		Short: "Print the inputs and formulas of a sheet as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract,
	}
	addExtractFlags(extractCmd)
	extractCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [source.pdf...]",
		Short: "Run layout analysis and cache markdown and JSON results",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVar(&analysisDir, "analysis-dir", "", "Layout analysis cache directory (default: XLMATCH_ANALYSIS_DIR)")
	analyzeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print artifact paths without calling the service")

	rootCmd.AddCommand(runCmd, extractCmd, analyzeCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (required)")
	cmd.Flags().StringVar(&mode, "mode", "rule", "Extraction mode: rule, llm")
	cmd.Flags().BoolVar(&printAreaOnly, "print-area-only", false, "Only extract cells inside the sheet's print area")
	cmd.MarkFlagRequired("sheet")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if analysisDir != "" {
		cfg.AnalysisDir = analysisDir
	}
	if symbols != "" {
		cfg.Symbols = symbols
	}
	logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
	return err
}

func extractOptions() (xlmatch.Options, error) {
	var m xlmatch.Mode
	switch mode {
	case "rule":
		m = xlmatch.ModeRule
	case "llm":
		m = xlmatch.ModeLLM
	default:
		return xlmatch.Options{}, fmt.Errorf("invalid mode: %s (must be rule or llm)", mode)
	}
	return xlmatch.Options{Mode: m, PrintAreaOnly: &printAreaOnly}, nil
}

func newModel() (*llm.Verifier, *llm.InputExtractor, error) {
	if err := cfg.ValidateLLM(); err != nil {
		return nil, nil, err
	}
	apiKey, baseURL := cfg.LLMCredentials()
	model, err := llm.NewModel(llm.ProviderConfig{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
		APIKey:   apiKey,
		BaseURL:  baseURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s model: %w", cfg.LLMProvider, err)
	}
	return llm.NewVerifier(model, llm.WithTemperature(cfg.LLMTemperature), llm.WithLogger(logger)),
		llm.NewInputExtractor(model, logger), nil
}

func newAnalyzer(log logrus.FieldLogger, dry bool) (*analyze.Analyzer, error) {
	transform, unknown := textnorm.Parse(cfg.Normalize)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown normalization %v in XLMATCH_NORMALIZE", unknown)
	}
	var client analyze.Service
	if !dry {
		if err := cfg.ValidateAnalysis(); err != nil {
			return nil, err
		}
		client = analyze.NewClient(cfg.AnalysisEndpoint, cfg.AnalysisAPIKey)
	}
	return analyze.NewAnalyzer(client, cfg.AnalysisDir,
		analyze.WithTransform(transform),
		analyze.WithDryRun(dry),
		analyze.WithLogger(log),
	), nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	opts, err := extractOptions()
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	log := logger.WithField("run_id", runID)

	verifier, extractor, err := newModel()
	if err != nil {
		return err
	}
	analyzer, err := newAnalyzer(log, false)
	if err != nil {
		return err
	}
	transform, _ := textnorm.Parse(cfg.Normalize)

	pipeline, err := xlmatch.NewPipeline(xlmatch.PipelineConfig{
		Analyzer:  analyzer,
		Verifier:  verifier,
		Marker:    markup.NewEngine(markup.WithLogger(log)),
		Extractor: extractor,
		Transform: transform,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	report, err := pipeline.Run(cmd.Context(), xlmatch.RunRequest{
		ExcelPath:    args[0],
		SheetName:    sheetName,
		ExcelPDFPath: excelPDF,
		SourcePDFs:   sources,
		Symbols:      cfg.Symbols,
		Options:      opts,
		RunID:        runID,
	})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Printf("sheet:  %s\n", report.SheetPDF)
	for _, p := range report.SourcePDFs {
		fmt.Printf("source: %s\n", p)
	}
	fmt.Printf("log:    %s\n", report.CSVPath)

	if reportPath != "" {
		jsonData, err := output.ReportToJSON(report, true)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		if err := os.WriteFile(reportPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	opts, err := extractOptions()
	if err != nil {
		return err
	}

	var sheet *models.SheetData
	if opts.Mode == xlmatch.ModeLLM {
		_, extractor, err := newModel()
		if err != nil {
			return err
		}
		sheet, err = xlmatch.ExtractWithModel(cmd.Context(), args[0], sheetName, extractor)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
	} else {
		sheet, err = xlmatch.Extract(args[0], sheetName, opts)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
	}

	jsonData, err := output.ToJSON(sheet, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(string(jsonData))
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	analyzer, err := newAnalyzer(logger, dryRun)
	if err != nil {
		return err
	}
	for _, pdfPath := range args {
		art, err := analyzer.Analyze(cmd.Context(), pdfPath)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n  markdown: %s\n  json:     %s\n", pdfPath, art.MarkdownPath, art.JSONPath)
	}
	return nil
}
