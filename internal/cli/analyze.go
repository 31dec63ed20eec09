package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mhaertel/inkboard/pkg/pipeline"
	"github.com/mhaertel/inkboard/pkg/scene"
)

// analyzeCommand creates the analyze command: prompt in, scene JSON out.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		output    string
		sceneType string
		model     string
		refresh   bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <prompt>",
		Short: "Turn a text prompt into a scene JSON document",
		Long: `Analyze sends the prompt to the configured LLM and prints the resulting
scene JSON. The scene can be edited by hand and rendered later with
"inkboard render".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache, model)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{
				Prompt:    args[0],
				SceneType: sceneType,
				Refresh:   refresh,
				Logger:    c.Logger,
			}

			sp := newSpinnerWithContext(cmd.Context(), "Analyzing prompt...")
			sp.Start()
			s, hit, err := runner.AnalyzeWithCacheInfo(cmd.Context(), opts)
			sp.Stop()
			if err != nil {
				return err
			}

			printSuccess("Scene ready: %s", s.Title)
			printStats(len(s.Nodes), len(s.Connections), hit)

			if output == "" || output == "-" {
				return scene.Write(s, os.Stdout)
			}
			if err := scene.WriteFile(s, output); err != nil {
				return err
			}
			printFile(output)
			printNextStep("Render it", appName+" render "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write scene JSON to a file instead of stdout")
	cmd.Flags().StringVarP(&sceneType, "type", "t", "", "force a scene type (architecture, pipeline, concept_map, ...)")
	cmd.Flags().StringVar(&model, "model", "", "model name (overrides config)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the scene cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")

	return cmd
}
