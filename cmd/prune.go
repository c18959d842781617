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

	"github.com/spf13/cobra"

	"github.com/dirkeep/dirkeep/pkg/backup"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove archives beyond the retention count.",
	Run: func(cmd *cobra.Command, args []string) {
		runner, err := backup.New(backup.WithLogger(logger))
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		removed := runner.Prune(buildRequest())
		fmt.Printf("%d old archive(s) pruned \n", len(removed))
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}
