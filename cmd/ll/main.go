package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"launchline/internal/config"
	"launchline/internal/db"
	"launchline/internal/domain"
	"launchline/internal/engine"
	"launchline/internal/events"
	"launchline/internal/migrate"
	"launchline/internal/server"
	"launchline/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "ll",
	Short: "Launchline CLI",
	Long: `Launchline tracks permit readiness for new business location launches.
- Workspace: your .launchline directory holding only the database; the
  launchline.yml template file lives next to it.
- Launch: one upcoming location opening that owns all of its permits.
- Permits: regulatory approvals (health, fire, ada, license, zoning,
  building) that walk a fixed workflow from not_started to approved.
- Readiness: a 0-100 score derived from approved permits, with critical
  permits weighing extra; recomputed on every mutation.
- Timeline: the launch's deadline and inspection dates projected as
  completed, upcoming, or overdue events.
- Event log: diary of changes, view with 'll log tail'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("LAUNCHLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
}

func registerCommands() {
	rootCmd.AddCommand(launchCmd())
	rootCmd.AddCommand(permitCmd())
	rootCmd.AddCommand(timelineCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

func launchCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "launch", Short: "Manage launches"}
	cmd.AddCommand(launchListCmd())
	cmd.AddCommand(launchCreateCmd())
	cmd.AddCommand(launchShowCmd())
	cmd.AddCommand(launchUpdateCmd())
	cmd.AddCommand(launchDeleteCmd())
	return cmd
}

func launchListCmd() *cobra.Command {
	var typeFilter, statusFilter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List launches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				launches, stats, err := e.ListLaunches(ctx, engine.LaunchFilter{Type: typeFilter, Status: statusFilter})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"launches": launches, "stats": stats})
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Type", "Location", "Target Open", "Readiness", "Permits"})
				for _, l := range launches {
					tw.AppendRow(table.Row{
						l.ID, l.Name, l.Type, l.Location,
						l.TargetOpenDate.Format("2006-01-02"),
						fmt.Sprintf("%d%%", l.ReadinessScore),
						len(l.Permits),
					})
				}
				tw.Render()
				fmt.Printf("total=%d active=%d completed=%d avg_readiness=%d\n",
					stats.Total, stats.Active, stats.Completed, stats.AverageReadiness)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&typeFilter, "type", "", "launch type filter (retail, restaurant, medical, fitness)")
	cmd.Flags().StringVar(&statusFilter, "status", "", "status filter (active, completed, overdue)")
	return cmd
}

func launchCreateCmd() *cobra.Command {
	var name, location, address, launchType, targetOpen string
	var fromTemplate bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create launch",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseDateFlag("target-open-date", targetOpen)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				l, err := e.CreateLaunch(ctx, engine.LaunchCreateOptions{
					Name:           name,
					Location:       location,
					Address:        address,
					Type:           domain.LaunchType(launchType),
					TargetOpenDate: target,
					FromTemplate:   fromTemplate,
					ActorID:        viper.GetString("actor-id"),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(l)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "launch name")
	cmd.Flags().StringVar(&location, "location", "", "city or district")
	cmd.Flags().StringVar(&address, "address", "", "street address")
	cmd.Flags().StringVar(&launchType, "type", "", "launch type (retail, restaurant, medical, fitness)")
	cmd.Flags().StringVar(&targetOpen, "target-open-date", "", "target opening date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&fromTemplate, "from-template", false, "seed permits from the launchline.yml template for this type")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("target-open-date")
	return cmd
}

func launchShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a launch with derived metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				l, meta, err := e.GetLaunch(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"launch": l, "metadata": meta})
			})
		},
	}
	return cmd
}

func launchUpdateCmd() *cobra.Command {
	var name, location, address, launchType, targetOpen string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a launch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.LaunchUpdateOptions{ID: args[0], ActorID: viper.GetString("actor-id")}
			if cmd.Flags().Changed("name") {
				opts.Name = &name
			}
			if cmd.Flags().Changed("location") {
				opts.Location = &location
			}
			if cmd.Flags().Changed("address") {
				opts.Address = &address
			}
			if cmd.Flags().Changed("type") {
				t := domain.LaunchType(launchType)
				opts.Type = &t
			}
			if cmd.Flags().Changed("target-open-date") {
				target, err := parseDateFlag("target-open-date", targetOpen)
				if err != nil {
					return err
				}
				opts.TargetOpenDate = &target
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				l, err := e.UpdateLaunch(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(l)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "launch name")
	cmd.Flags().StringVar(&location, "location", "", "city or district")
	cmd.Flags().StringVar(&address, "address", "", "street address")
	cmd.Flags().StringVar(&launchType, "type", "", "launch type")
	cmd.Flags().StringVar(&targetOpen, "target-open-date", "", "target opening date (YYYY-MM-DD)")
	return cmd
}

func launchDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a launch and all of its permits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				l, err := e.DeleteLaunch(ctx, args[0], viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				fmt.Printf("deleted launch %s (%s) with %d permits\n", l.ID, l.Name, len(l.Permits))
				return nil
			})
		},
	}
	return cmd
}

func permitCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "permit", Short: "Manage permits"}
	cmd.AddCommand(permitListCmd())
	cmd.AddCommand(permitGetCmd())
	cmd.AddCommand(permitAddCmd())
	cmd.AddCommand(permitUpdateCmd())
	cmd.AddCommand(permitDeleteCmd())
	return cmd
}

func permitListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <launch-id>",
		Short: "List permits for a launch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				permits, stats, err := e.ListPermits(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"permits": permits, "metadata": stats})
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Type", "Title", "Status", "Priority", "Agency"})
				for _, p := range permits {
					tw.AppendRow(table.Row{p.ID, p.Type, p.Title, p.Status, p.Priority, p.Agency})
				}
				tw.Render()
				fmt.Printf("total=%d approved=%d pending=%d critical_pending=%d overdue=%d\n",
					stats.Total, stats.Approved, stats.Pending, stats.Critical, stats.Overdue)
				return nil
			})
		},
	}
	return cmd
}

func permitGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <launch-id> <permit-id>",
		Short: "Get permit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := e.GetPermit(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	return cmd
}

func permitAddCmd() *cobra.Command {
	var permitType, title, description, agency, priority string
	var inspectorName, inspectorContact, applicationRef string
	var applicationDeadline, inspectionDate, approvalDeadline string
	var processingDays int
	cmd := &cobra.Command{
		Use:   "add <launch-id>",
		Short: "Add a permit to a launch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := engine.PermitSeed{
				Type:                    domain.PermitType(permitType),
				Title:                   title,
				Description:             description,
				Agency:                  agency,
				InspectorName:           inspectorName,
				InspectorContact:        inspectorContact,
				ApplicationReference:    applicationRef,
				Priority:                domain.PermitPriority(priority),
				EstimatedProcessingDays: processingDays,
			}
			var err error
			if seed.ApplicationDeadline, err = parseOptionalDateFlag("application-deadline", applicationDeadline); err != nil {
				return err
			}
			if seed.InspectionDate, err = parseOptionalDateFlag("inspection-date", inspectionDate); err != nil {
				return err
			}
			if seed.ApprovalDeadline, err = parseOptionalDateFlag("approval-deadline", approvalDeadline); err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, summary, err := e.CreatePermit(ctx, args[0], seed, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"permit": p, "launch": summary})
			})
		},
	}
	cmd.Flags().StringVar(&permitType, "type", "", "permit type (health, fire, ada, license, zoning, building)")
	cmd.Flags().StringVar(&title, "title", "", "permit title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&agency, "agency", "", "issuing agency")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (low, medium, high, critical)")
	cmd.Flags().StringVar(&inspectorName, "inspector-name", "", "inspector name")
	cmd.Flags().StringVar(&inspectorContact, "inspector-contact", "", "inspector contact")
	cmd.Flags().StringVar(&applicationRef, "application-reference", "", "agency application reference")
	cmd.Flags().StringVar(&applicationDeadline, "application-deadline", "", "application deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&inspectionDate, "inspection-date", "", "inspection date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&approvalDeadline, "approval-deadline", "", "approval deadline (YYYY-MM-DD)")
	cmd.Flags().IntVar(&processingDays, "processing-days", 0, "estimated processing days")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func permitUpdateCmd() *cobra.Command {
	var status, title, description, agency string
	var inspectorName, inspectorContact, applicationRef string
	var applicationDeadline, inspectionDate, approvalDeadline string
	var addNotes, addActions []string
	var processingDays int
	cmd := &cobra.Command{
		Use:   "update <launch-id> <permit-id>",
		Short: "Update a permit",
		Long:  "Applies a partial update. Status changes are checked against the permit workflow; an illegal transition fails and reports the allowed next statuses.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := engine.PermitPatch{
				LaunchID: args[0],
				PermitID: args[1],
				ActorID:  viper.GetString("actor-id"),
			}
			if cmd.Flags().Changed("status") {
				s := domain.PermitStatus(status)
				patch.Status = &s
			}
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("agency") {
				patch.Agency = &agency
			}
			if cmd.Flags().Changed("inspector-name") {
				patch.InspectorName = &inspectorName
			}
			if cmd.Flags().Changed("inspector-contact") {
				patch.InspectorContact = &inspectorContact
			}
			if cmd.Flags().Changed("application-reference") {
				patch.ApplicationReference = &applicationRef
			}
			if cmd.Flags().Changed("processing-days") {
				patch.EstimatedProcessingDays = &processingDays
			}
			patch.AddInspectorNotes = addNotes
			patch.AddCorrectiveActions = addActions
			var err error
			if patch.ApplicationDeadline, err = parseOptionalDateFlag("application-deadline", applicationDeadline); err != nil {
				return err
			}
			if patch.InspectionDate, err = parseOptionalDateFlag("inspection-date", inspectionDate); err != nil {
				return err
			}
			if patch.ApprovalDeadline, err = parseOptionalDateFlag("approval-deadline", approvalDeadline); err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, summary, err := e.UpdatePermit(ctx, patch)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"permit": p, "launch": summary})
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "new status (not_started, application_submitted, scheduled, inspection_passed, inspection_failed, approved, rejected)")
	cmd.Flags().StringVar(&title, "title", "", "permit title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&agency, "agency", "", "issuing agency")
	cmd.Flags().StringVar(&inspectorName, "inspector-name", "", "inspector name")
	cmd.Flags().StringVar(&inspectorContact, "inspector-contact", "", "inspector contact")
	cmd.Flags().StringVar(&applicationRef, "application-reference", "", "agency application reference")
	cmd.Flags().StringVar(&applicationDeadline, "application-deadline", "", "application deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&inspectionDate, "inspection-date", "", "inspection date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&approvalDeadline, "approval-deadline", "", "approval deadline (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&addNotes, "add-note", nil, "append an inspector note (repeatable)")
	cmd.Flags().StringArrayVar(&addActions, "add-corrective-action", nil, "append a corrective action (repeatable)")
	cmd.Flags().IntVar(&processingDays, "processing-days", 0, "estimated processing days")
	return cmd
}

func permitDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <launch-id> <permit-id>",
		Short: "Delete a permit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, summary, err := e.DeletePermit(ctx, args[0], args[1], viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				fmt.Printf("deleted permit %s (%s); launch readiness now %d%%\n", p.ID, p.Title, summary.ReadinessScore)
				return nil
			})
		},
	}
	return cmd
}

func timelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline <launch-id>",
		Short: "Show the launch timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				evs, err := e.Timeline(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(evs)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Date", "Type", "Title", "Status"})
				for _, ev := range evs {
					tw.AppendRow(table.Row{ev.Date.Format("2006-01-02"), ev.Type, ev.Title, ev.Status})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Manage the permit template config"}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configInitCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(cfg)
		},
	}
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default launchline.yml to the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Event log",
		Long:  "The diary of everything that happened: launch and permit changes, status transitions, deletions.",
	}
	cmd.AddCommand(logTailCmd())
	return cmd
}

func logTailCmd() *cobra.Command {
	var n int
	var launchID, evtType, entityKind, entityID string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := db.Open(db.Config{Workspace: viper.GetString("workspace")})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			w := events.SQLWriter{DB: conn}
			evs, err := w.Latest(cmd.Context(), n, launchID, evtType, entityKind, entityID)
			if err != nil {
				return err
			}
			return printJSONOrTable(evs)
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&launchID, "launch", "", "launch id filter")
	cmd.Flags().StringVar(&evtType, "type", "", "event type filter")
	cmd.Flags().StringVar(&entityKind, "entity-kind", "", "entity kind")
	cmd.Flags().StringVar(&entityID, "entity-id", "", "entity id")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			cfg, err := config.LoadOptional(workspace)
			if err != nil {
				return err
			}
			e := engine.New(store.NewSQLite(conn), events.SQLWriter{DB: conn}, cfg)
			handler, err := server.New(server.Config{Engine: e, BasePath: basePath})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Launchline API on http://%s%s (OpenAPI at /openapi.json, Swagger UI at /docs)\n", addr, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8484", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

// --- helpers ---

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return err
	}
	e := engine.New(store.NewSQLite(conn), events.SQLWriter{DB: conn}, cfg)
	return fn(ctx, e)
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseDateFlag(flag, value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --%s: %q is not a date", flag, value)
}

func parseOptionalDateFlag(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDateFlag(flag, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
