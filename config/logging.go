/*******************************************************************************
*
* Copyright 2024 Heimdall contributors
*
* This file is part of Heimdall.
*
* Heimdall is free software: you can redistribute it and/or modify it under the
* terms of the GNU General Public License as published by the Free Software
* Foundation, either version 3 of the License, or (at your option) any later
* version.
*
* Heimdall is distributed in the hope that it will be useful, but WITHOUT ANY
* WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR
* A PARTICULAR PURPOSE. See the GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License along with
* Heimdall. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the single process-wide logger sink used by the CLI
// entry points and handed by reference into the extractor. HEIMDALL_VERBOSE=1
// raises verbosity (spec.md §6); nothing else in this repository consults
// the environment.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
	logger.SetLevel(logrus.InfoLevel)
	if os.Getenv("HEIMDALL_VERBOSE") == "1" {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// ApplyVerbose raises the logger to Debug level when verbose is true (for
// example from Options.Verbose), independent of the environment variable.
func ApplyVerbose(logger *logrus.Logger, verbose bool) {
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
}
