package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or change the server configuration",
}

var configOutput string

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the server configuration",
	Run: func(cmd *cobra.Command, args []string) {
		handleConfigGet(configOutput)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key=value...]",
	Short: "Change server configuration values",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		values, err := parseAssignments(args)
		if err != nil {
			fatalf("Error: %v", err)
		}
		handleConfigSet(values)
	},
}

func init() {
	configGetCmd.Flags().StringVarP(&configOutput, "output", "o", "", "Output format: json or yaml")
	configCmd.AddCommand(configGetCmd, configSetCmd)

	RootCmd.AddCommand(configCmd)
}

func handleConfigGet(format string) {
	cfg, err := Client.GetConfig(context.Background(), requireSession())
	if err != nil {
		fail("getting config", err)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			fail("encoding config", err)
		}
	case "yaml":
		out, err := yaml.Marshal(cfg)
		if err != nil {
			fail("encoding config", err)
		}
		fmt.Print(string(out))
	case "":
		fmt.Println("\n--- SERVER CONFIGURATION ---")
		keys := make([]string, 0, len(cfg))
		for k := range cfg {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s=%s\n", k, cfg[k])
		}
	default:
		fatalf("Error: unknown output format %q (use json or yaml)", format)
	}
}

func handleConfigSet(values map[string]string) {
	resp, err := Client.SaveConfig(context.Background(), requireSession(), values)
	if err != nil {
		fail("saving config", err)
	}
	fmt.Println(statusOr(resp, "Configuration saved."))
}

// parseAssignments turns key=value arguments into a map. Values may contain '='.
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", arg)
		}
		values[key] = value
	}
	return values, nil
}
