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
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dirkeep/dirkeep/pkg/backup"
	"github.com/dirkeep/dirkeep/pkg/server"
)

var defaultAddr = "unix://" + filepath.Join(os.TempDir(), "dirkeep.sock")

var (
	addr     string
	schedule string
)

// agentCmd represents the agent command
var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the backup agent.",
	Run: func(cmd *cobra.Command, args []string) {
		runner, err := backup.New(backup.WithLogger(logger))
		if err != nil {
			logger.Fatal("failed to create backup runner", zap.Error(err))
			os.Exit(1)
		}

		if schedule == "" {
			schedule = viper.GetString("schedule")
		}

		logger.Debug("Listening address: " + addr)
		s, err := server.New(
			server.WithAddr(addr),
			server.WithRunner(runner),
			server.WithRequest(buildRequest()),
			server.WithSchedule(schedule),
			server.WithLogger(logger),
		)
		if err != nil {
			logger.Fatal("failed to create new server", zap.Error(err))
			os.Exit(1)
		}
		if err := s.Run(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server run failed", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(agentCmd)
	agentCmd.PersistentFlags().StringVar(&addr, "addr", defaultAddr, "listening address of agent server.")
	agentCmd.PersistentFlags().StringVar(&schedule, "schedule", "", "cron expression for scheduled backups.")
}
