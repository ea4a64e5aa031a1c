package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucasjlepore/trackexport/config"
	"github.com/lucasjlepore/trackexport/pipeline"
)

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "trackexport",
		Short:         "Export watch activities as TCX and GPX",
		Long:          color.CyanString("trackexport - convert an Amazfit activity store into TCX and GPX files"),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.ReadFile(v, cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newExportCmd(v), newVersionCmd())
	return root
}

func newExportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <db> <dest>",
		Short: "Export activities newer than the watermark",
		Example: `  trackexport export sport_data.db ./export
  trackexport export --source fit --samples-format csv ./fit ./export
  trackexport export --resync sport_data.db ./export`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v.Set("db", args[0])
			v.Set("dest", args[1])
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetLevel(cfg.Level())

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			res, err := pipeline.Run(ctx, cfg.Options(logger))
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), res)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("source", pipeline.SourceSQLite, "store kind (sqlite|fit)")
	flags.String("samples-format", pipeline.SamplesParquet, "enriched samples artifact (parquet|csv|none)")
	flags.String("metrics-file", "", "write run metrics in textfile-collector format")
	flags.String("watermark-file", "", "last exported id file (default <dest>/lstupd.txt)")
	flags.Bool("resync", false, "ignore the watermark and export everything")
	flags.Int64("begin-time", 0, "export activities with id >= this epoch-ms value")
	flags.Int("window", 20, "cadence window size in samples")
	for key, name := range map[string]string{
		"source":         "source",
		"samples_format": "samples-format",
		"metrics_file":   "metrics-file",
		"watermark_file": "watermark-file",
		"resync":         "resync",
		"begin_time":     "begin-time",
		"window":         "window",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
	return cmd
}

func printSummary(w io.Writer, res *pipeline.Result) {
	label := color.New(color.FgGreen)
	for _, a := range res.Activities {
		code := "-"
		if a.TypeCode != nil {
			code = fmt.Sprint(*a.TypeCode)
		}
		label.Fprint(w, "Date: ")
		fmt.Fprintf(w, "%s, %d, type: %s:%s\n", a.Start, a.ID, code, a.Sport)
		fmt.Fprintf(w, "      %s\n", a.Note)
	}
	if !res.Watermark.Exported() {
		fmt.Fprintln(w, color.YellowString("Nothing exported (begin time %d)", res.BeginTime))
		return
	}
	fmt.Fprintln(w, color.GreenString("Exported %d activities to %s", len(res.Activities), res.OutputDir))
	fmt.Fprintf(w, "Watermark:  %d (%s)\n", int64(res.Watermark), res.WatermarkPath)
	if res.SamplesPath != "" {
		fmt.Fprintf(w, "Samples:    %s\n", res.SamplesPath)
	}
	if res.MetricsPath != "" {
		fmt.Fprintf(w, "Metrics:    %s\n", res.MetricsPath)
	}
	fmt.Fprintf(w, "Manifest:   %s\n", res.ManifestPath)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			title := color.New(color.FgCyan, color.Bold)
			label := color.New(color.FgGreen)

			title.Fprintf(w, "trackexport %s\n", orDefault(version, "dev"))
			label.Fprint(w, "Git commit: ")
			fmt.Fprintln(w, orDefault(gitCommit, "unknown"))
			label.Fprint(w, "Built:      ")
			fmt.Fprintln(w, orDefault(buildDate, "unknown"))
			label.Fprint(w, "Go version: ")
			fmt.Fprintln(w, runtime.Version())
		},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
