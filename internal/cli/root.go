// Package cli contains the cobra commands for the cyberrag tool.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cyberrag/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	log     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cyberrag",
	Short: "Cyber advisory intelligence - ingest advisories and query them with grounded answers",
	Long: `cyberrag ingests cyber security advisories (PDF or plain text), extracts
indicators of compromise, chunks and embeds the text into a vector index, and
answers questions grounded in the most relevant advisories.

Example usage:
  cyberrag ingest ./advisories              # Ingest a directory of advisories
  cyberrag query -q "SMB lateral movement"  # Show matching advisory evidence
  cyberrag ask -q "Which CVEs are abused?"  # Generate a cited answer
  cyberrag iocs "seen hxxps://evil[.]com"   # Extract indicators from text`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log = newLogger(cfg)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./cyberrag.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "advisory directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func newLogger(cfg *config.Config) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}
