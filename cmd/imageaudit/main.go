// This file is part of ImageAudit
// Copyright (c) 2022 Confident Security, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/confidentsecurity/imageaudit/pkg/consts"
	"github.com/confidentsecurity/imageaudit/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

// Version of this application populated by `go build`
// e.g. $ go build -ldflags="-X main.Version=v1.0.0"
var Version string

var mainCmd = &cobra.Command{
	Use:           consts.AppName,
	Short:         "Offline audit tool for " + consts.AppPrettyName + " payloads of measured boot images.",
	SilenceUsage:  false,
	SilenceErrors: false,
	Version:       Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch outputFormat {
		case "", "json", "yaml":
		default:
			return fmt.Errorf("--output flag value must be one of json|yaml")
		}
		return nil
	},
}

func init() {
	if Version == "" {
		mainCmd.Version = "0.0.0-dev"
	}

	viper.AutomaticEnv()

	kflags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(kflags)

	// parse the go default flagset to get flags for glog and other packages in future
	mainCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	mainCmd.PersistentFlags().AddGoFlagSet(kflags)

	kflags.Set("logtostderr", "true")
	kflags.Set("alsologtostderr", "true")

	mainCmd.PersistentFlags().BoolVarP(
		&quietFlag,
		"quiet",
		"",
		quietFlag,
		"Suppress printing error messages",
	)

	mainCmd.PersistentFlags().MarkHidden("alsologtostderr")
	mainCmd.PersistentFlags().MarkHidden("add_dir_header")
	mainCmd.PersistentFlags().MarkHidden("log_file")
	mainCmd.PersistentFlags().MarkHidden("log_file_max_size")
	mainCmd.PersistentFlags().MarkHidden("one_output")
	mainCmd.PersistentFlags().MarkHidden("skip_headers")
	mainCmd.PersistentFlags().MarkHidden("skip_log_headers")
	mainCmd.PersistentFlags().MarkHidden("v")
	mainCmd.PersistentFlags().MarkHidden("log_backtrace_at")
	mainCmd.PersistentFlags().MarkHidden("log_dir")
	mainCmd.PersistentFlags().MarkHidden("logtostderr")
	mainCmd.PersistentFlags().MarkHidden("stderrthreshold")
	mainCmd.PersistentFlags().MarkHidden("vmodule")

	// suppress the incorrect prefix in glog output
	flag.CommandLine.Parse([]string{})
	viper.BindPFlags(mainCmd.PersistentFlags())

	mainCmd.AddCommand(headerCmd)
	mainCmd.AddCommand(partitionsCmd)
	mainCmd.AddCommand(verifyCmd)
	mainCmd.AddCommand(expectCmd)
	mainCmd.AddCommand(scanB64Cmd)
	mainCmd.AddCommand(unitGraphCmd)
}

func main() {
	ctx, cancelFunc := context.WithCancel(context.Background())

	// We must use a buffered channel or risk missing the signal
	// if we're not ready to receive when the signal is sent.
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case signal := <-signalCh:
			utils.Eprintf(quietFlag, false, "\nExiting on signal %v\n", signal)
			cancelFunc()
			os.Exit(1)
		case <-ctx.Done():
		}
	}()

	if err := mainCmd.ExecuteContext(ctx); err != nil {
		utils.Eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}
}
