package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/spicemodel/internal/config"
	"github.com/mvp-joe/spicemodel/internal/store"
)

var (
	queryType        string
	queryNamePattern string
	queryLimit       int
	queryMin         float64
	queryMax         float64
	queryParam       string
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query extracted models and subcircuits",
}

var queryModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Query models by type, name pattern, and a numeric parameter range",
	Args:  cobra.NoArgs,
	RunE:  runQueryModels,
}

var querySubcktCmd = &cobra.Command{
	Use:   "subckts",
	Short: "Query subcircuits by name pattern",
	Args:  cobra.NoArgs,
	RunE:  runQuerySubckts,
}

func init() {
	queryModelsCmd.Flags().StringVar(&queryType, "type", "", "model type, e.g. nmos (required)")
	queryModelsCmd.Flags().StringVar(&queryNamePattern, "name", "", "SQL LIKE pattern over model name")
	queryModelsCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum results (default from config)")
	queryModelsCmd.Flags().StringVar(&queryParam, "param", "", "numeric parameter name to range-filter, e.g. vth")
	queryModelsCmd.Flags().Float64Var(&queryMin, "min", 0, "minimum value for --param")
	queryModelsCmd.Flags().Float64Var(&queryMax, "max", 0, "maximum value for --param")
	queryModelsCmd.MarkFlagRequired("type")

	querySubcktCmd.Flags().StringVar(&queryNamePattern, "name", "", "SQL LIKE pattern over subcircuit name")
	querySubcktCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum results (default from config)")

	queryCmd.AddCommand(queryModelsCmd)
	queryCmd.AddCommand(querySubcktCmd)
	rootCmd.AddCommand(queryCmd)
}

func openConfiguredStore() (*store.Store, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, cfg, nil
}

func runQueryModels(cmd *cobra.Command, args []string) error {
	st, cfg, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer st.Close()

	filter := store.ModelFilter{
		Type:        queryType,
		NamePattern: queryNamePattern,
		MaxResults:  resolveLimit(queryLimit, cfg),
	}
	if queryParam != "" {
		pred := store.ParameterRangePredicate{Name: queryParam}
		if cmd.Flags().Changed("min") {
			min := queryMin
			pred.Min = &min
		}
		if cmd.Flags().Changed("max") {
			max := queryMax
			pred.Max = &max
		}
		filter.Ranges = append(filter.Ranges, pred)
	}

	results, err := st.QueryModels(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return printJSON(results)
}

func runQuerySubckts(cmd *cobra.Command, args []string) error {
	st, cfg, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer st.Close()

	filter := store.SubcircuitFilter{
		NamePattern: queryNamePattern,
		MaxResults:  resolveLimit(queryLimit, cfg),
	}

	results, err := st.QuerySubcircuits(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return printJSON(results)
}

func resolveLimit(requested int, cfg *config.Config) int {
	if requested > 0 {
		return requested
	}
	return cfg.MCP.MaxResults
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
