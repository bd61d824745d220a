// Copyright 2024 The Bakery Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute builds and runs the bakeryc command tree: a --config_file flag
// loaded through viper, with every other flag bindable via environment
// variable through viper.AutomaticEnv.
func Execute() {
	// glog registers its flags (-v, -logtostderr, ...) into the standard
	// flag package; parse an empty set so glog doesn't warn about logging
	// before flag.Parse when bakeryc's own flags are all cobra/pflag.
	_ = flag.CommandLine.Parse(nil)

	rootCmd := &cobra.Command{
		Use:   "bakeryc",
		Short: "bakeryc compiles a recipe+data text pair into bakery's binary encoding.",
	}

	cfgFile := rootCmd.PersistentFlags().String("config_file", "", "Path to config file.")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config: %w", err)
			}
		}
		viper.BindPFlags(cmd.Flags())
		viper.AutomaticEnv()
		return nil
	}

	rootCmd.AddCommand(newCompileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}