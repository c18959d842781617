// This file is part of dirkeep
//
// Copyright (C) 2025  DirKeep Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>

package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultKeep = 30
	defaultName = "DirKeep"
)

var (
	cfgFile     string
	source      string
	destination string
	keep        int
	name        string
	debug       bool
	dryRun      bool
	logger      *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dirkeep",
	Short: "DirKeep folder backup tool.",
	Long:  `DirKeep archives a directory into timestamped zip files and prunes archives beyond a retention count.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			fmt.Println(err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if debug {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dirkeep.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug (default is false)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log intended actions without touching the filesystem.")
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "directory to back up.")
	rootCmd.PersistentFlags().StringVar(&destination, "destination", "", "directory receiving archives.")
	rootCmd.PersistentFlags().IntVar(&keep, "keep", -1, "number of archives to retain; 0 disables pruning.")
	rootCmd.PersistentFlags().StringVar(&name, "name", "", "archive name prefix; part of the on-disk naming contract, changing it orphans old archives from retention.")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	logger = newLogger(debug)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}

		// Search config in home directory with name ".dirkeep" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".dirkeep")
	}

	// Set default value for config
	viper.SetDefault("keep", defaultKeep)
	viper.SetDefault("name", defaultName)

	// set value for dry_run
	viper.Set("dry_run", dryRun)

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logger.Info("Using config file: " + viper.ConfigFileUsed())
	}
}

// newLogger builds a console logger with timestamped lines, routing Info and
// below to stdout and Warn and above to stderr.
func newLogger(debug bool) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	minLevel := zapcore.InfoLevel
	if debug {
		minLevel = zapcore.DebugLevel
	}
	outPriority := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= minLevel && l < zapcore.WarnLevel
	})
	errPriority := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.WarnLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), outPriority),
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), errPriority),
	)
	return zap.New(core)
}
