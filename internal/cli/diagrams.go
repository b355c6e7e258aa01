package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/flowline-dev/flowline/pkg/model"
	"github.com/flowline-dev/flowline/pkg/store"
)

// diagramsCommand creates the diagrams command group for browsing stored
// diagrams.
func (c *CLI) diagramsCommand() *cobra.Command {
	var (
		mongoURI string
		mongoDB  string
	)

	cmd := &cobra.Command{
		Use:   "diagrams",
		Short: "Browse diagrams stored by the API server",
		Long: `Browse diagrams stored by the API server.

Without a subcommand, diagrams opens an interactive picker. Selecting an
entry exports the diagram to <name>.json in the current directory,
preferring the resolved layout when one has been computed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiagramsPicker(cmd.Context(), mongoURI, mongoDB)
		},
	}

	srv := c.Config.Serve
	cmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", srv.MongoURI, "MongoDB connection URI")
	cmd.PersistentFlags().StringVar(&mongoDB, "mongo-db", srv.MongoDB, "MongoDB database name")

	cmd.AddCommand(c.diagramsListCommand(&mongoURI, &mongoDB))
	cmd.AddCommand(c.diagramsDeleteCommand(&mongoURI, &mongoDB))

	return cmd
}

// diagramsListCommand creates the non-interactive listing subcommand.
func (c *CLI) diagramsListCommand(mongoURI, mongoDB *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored diagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context(), *mongoURI, *mongoDB)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			summaries, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list diagrams: %w", err)
			}
			if len(summaries) == 0 {
				printInfo("No diagrams stored")
				return nil
			}
			for _, s := range summaries {
				status := "unresolved"
				if s.Resolved {
					status = "resolved"
				}
				printKeyValue(s.Name, fmt.Sprintf("%s · %d shapes · %s · %s",
					s.ID, s.Shapes, status, formatRelativeTime(s.UpdatedAt)))
			}
			return nil
		},
	}
}

// diagramsDeleteCommand creates the delete subcommand.
func (c *CLI) diagramsDeleteCommand(mongoURI, mongoDB *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context(), *mongoURI, *mongoDB)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete diagram %s: %w", args[0], err)
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// runDiagramsPicker lists stored diagrams interactively and exports the
// selected one.
func (c *CLI) runDiagramsPicker(ctx context.Context, mongoURI, mongoDB string) error {
	st, err := c.openStore(ctx, mongoURI, mongoDB)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	summaries, err := st.List(ctx)
	if err != nil {
		return fmt.Errorf("list diagrams: %w", err)
	}
	if len(summaries) == 0 {
		printInfo("No diagrams stored")
		return nil
	}

	program := tea.NewProgram(NewDiagramListModel(summaries), tea.WithOutput(os.Stderr))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}

	picked, ok := final.(DiagramListModel)
	if !ok || picked.Selected == nil {
		return nil
	}

	d, err := st.Get(ctx, picked.Selected.Summary.ID)
	if err != nil {
		return fmt.Errorf("load diagram: %w", err)
	}

	m := d.Resolved
	if m == nil {
		m = d.Model
	}

	path := d.Name + ".json"
	if err := model.WriteModelFile(m, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Exported %s", d.Name)
	printFile(path)
	if d.Resolved == nil {
		printNewline()
		printNextStep("Resolve", fmt.Sprintf("%s resolve %s", appName, path))
	}

	return nil
}

// openStore connects to MongoDB for diagram browsing. The diagrams command
// requires a persistent backend since in-memory stores do not outlive the
// server process.
func (c *CLI) openStore(ctx context.Context, mongoURI, mongoDB string) (store.Store, error) {
	if mongoURI == "" {
		return nil, fmt.Errorf("no MongoDB URI configured: pass --mongo-uri or set serve.mongo_uri in %s.toml", appName)
	}
	return store.NewMongoStore(ctx, mongoURI, mongoDB)
}
