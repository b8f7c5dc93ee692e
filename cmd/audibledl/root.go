package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/JaegerMaster/audible-dl/pkg/app"
	"github.com/JaegerMaster/audible-dl/pkg/app/styles"
	"github.com/JaegerMaster/audible-dl/pkg/config"
	"github.com/JaegerMaster/audible-dl/pkg/data"
	"github.com/JaegerMaster/audible-dl/pkg/integrations"
	"github.com/JaegerMaster/audible-dl/pkg/services"
	"github.com/JaegerMaster/audible-dl/pkg/sources"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const version = "2.0.1"

var (
	flagASIN    string
	flagProfile string
	flagKeep    bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:     "audible-dl",
	Short:   "Download and decrypt your Audible audiobooks",
	Long:    "Browse your Audible library, download a title and decrypt it to a standard .m4b file.\nRun without flags for an interactive menu.",
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if flagASIN != "" {
			runBook(cfg, flagASIN)
			return
		}

		asin, err := app.Run(newSource(cfg), cfg)
		cobra.CheckErr(err)
		if asin == "" {
			fmt.Println("Nothing selected.")
			return
		}
		runBook(cfg, asin)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath(), "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "audible-cli profile to use")
	rootCmd.PersistentFlags().BoolVarP(&flagKeep, "keep-files", "k", false, "Keep intermediate files after decryption")
	rootCmd.Flags().StringVarP(&flagASIN, "asin", "a", "", "ASIN of the book to download directly")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(downloadCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	cobra.CheckErr(err)
	if flagProfile != "" {
		cfg.Profile = flagProfile
	}
	return cfg
}

func newSource(cfg config.Config) sources.Source {
	client, err := sources.NewAudibleCLI(cfg.Tools.AudibleBin, cfg.Profile)
	cobra.CheckErr(err)
	return client
}

// runBook drives one download-decrypt job and reports the outcome. A
// failed job ends the process with a non-zero exit code.
func runBook(cfg config.Config, asin string) {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	decrypter, err := integrations.NewFFmpeg(cfg.Tools.FFmpegBin)
	cobra.CheckErr(err)

	workflow := services.NewWorkflow(newSource(cfg), decrypter)

	done := make(chan struct{})
	go func() {
		for p := range workflow.Progress() {
			fmt.Printf("%s %s\n", stageStyle(p.Stage).Render(string(p.Stage)), p.Message)
		}
		close(done)
	}()

	result, err := workflow.Run(context.Background(), data.Job{
		ASIN:      asin,
		OutputDir: cfg.OutputDir,
		KeepFiles: flagKeep,
	})
	workflow.Close()
	<-done
	cobra.CheckErr(err)

	fmt.Println()
	fmt.Println(styles.StatusDone.Render("Process completed successfully!"))
	fmt.Printf("Decrypted audiobook: %s\n", result.OutputPath)
	fmt.Printf("File size: %.2f MB\n", float64(result.Size)/(1024*1024))
	if result.Kept {
		fmt.Println(styles.MutedStyle.Render("Intermediate files kept as requested."))
	} else {
		fmt.Println(styles.MutedStyle.Render(fmt.Sprintf("Removed %d intermediate files.", len(result.Cleaned))))
	}
}

func stageStyle(stage services.Stage) lipgloss.Style {
	switch stage {
	case services.StageDone:
		return styles.StatusDone
	case services.StageFailed:
		return styles.StatusFailed
	default:
		return styles.StatusRunning
	}
}
