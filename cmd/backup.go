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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dirkeep/dirkeep/pkg/backup"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Archive the source directory into the destination.",
	Run: func(cmd *cobra.Command, args []string) {
		runner, err := backup.New(backup.WithLogger(logger))
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		res := runner.Run(buildRequest())
		if res.Err != nil {
			logger.Error("backup failed", zap.Error(res.Err))
			os.Exit(1)
		}
	},
}

// buildRequest assembles the run request from flags, falling back to config
// values for anything left unset.
func buildRequest() backup.Request {
	req := backup.Request{
		Source:      source,
		Destination: destination,
		Keep:        keep,
		Name:        name,
		DryRun:      viper.GetBool("dry_run"),
	}
	if req.Source == "" {
		req.Source = viper.GetString("source")
	}
	if req.Destination == "" {
		req.Destination = viper.GetString("destination")
	}
	if req.Keep < 0 {
		req.Keep = viper.GetInt("keep")
	}
	if req.Name == "" {
		req.Name = viper.GetString("name")
	}
	return req
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
