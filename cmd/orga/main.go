package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"orga/internal/app"
	"orga/internal/calendar"
	"orga/internal/config"
	"orga/internal/db"
	"orga/internal/domain"
	"orga/internal/engine"
	"orga/internal/repo"
	"orga/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "orga",
	Short: "Orga CLI",
	Long: `Orga organizes personal dev projects from the terminal.
A project owns weighted milestones and point-valued tasks; progress, health,
calendars, weekly reports and project documents are all derived from them.
Everything lives in a single SQLite database under .orga/ in the workspace;
attachments below the embed limit are stored inside the database, larger
ones go to an optional linked workspace directory.`,
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
	viper.SetEnvPrefix("ORGA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(milestoneCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(noteCmd())
	rootCmd.AddCommand(snippetCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(docCmd())
	rootCmd.AddCommand(fileCmd())
	rootCmd.AddCommand(settingsCmd())
	rootCmd.AddCommand(serveCmd())
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize an Orga workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			conn, _, err := app.Open(cmd.Context(), workspace)
			if err != nil {
				return err
			}
			defer conn.Close()
			cfgPath := config.Path(workspace)
			if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
				if err := os.WriteFile(cfgPath, []byte(config.GenerateDefault()), 0o644); err != nil {
					return err
				}
				fmt.Printf("Created %s\n", cfgPath)
			}
			fmt.Printf("Workspace ready at %s\n", db.Path(workspace))
			return nil
		},
	}
}

func projectCmd() *cobra.Command {
	prj := &cobra.Command{Use: "project", Short: "Manage projects"}
	prj.AddCommand(projectCreateCmd())
	prj.AddCommand(projectListCmd())
	prj.AddCommand(projectShowCmd())
	prj.AddCommand(projectUpdateCmd())
	prj.AddCommand(projectArchiveCmd())
	prj.AddCommand(projectDeleteCmd())
	return prj
}

func projectCreateCmd() *cobra.Command {
	var desc, priority, ptype, startDate, targetDate string
	var tags, objectives, stack []string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := e.CreateProject(ctx, engine.ProjectCreateOptions{
					Name:        args[0],
					Description: desc,
					Priority:    priority,
					Type:        ptype,
					Tags:        tags,
					Objectives:  objectives,
					StartDate:   optionalString(startDate),
					TargetDate:  optionalString(targetDate),
					TechStack:   stack,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	cmd.Flags().StringVar(&desc, "description", "", "description")
	cmd.Flags().StringVar(&priority, "priority", "", "LOW, MED or HIGH")
	cmd.Flags().StringVar(&ptype, "type", "", "CODE or TENDER")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags")
	cmd.Flags().StringSliceVar(&objectives, "objective", nil, "objectives")
	cmd.Flags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&targetDate, "target", "", "target date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&stack, "tech", nil, "tech stack entries")
	return cmd
}

func projectListCmd() *cobra.Command {
	var status string
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				filter := status
				if filter == "" && !all {
					filter = domain.ProjectActive
				}
				projects, err := e.Repo.ListProjects(ctx, filter)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(projects)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Status", "Priority", "Type", "Target"})
				for _, p := range projects {
					tw.AppendRow(table.Row{shortID(p.ID), p.Name, p.Status, p.Priority, p.Type, deref(p.TargetDate)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status filter (ACTIVE, ARCHIVED)")
	cmd.Flags().BoolVar(&all, "all", false, "include archived projects")
	return cmd
}

func projectShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := resolveProject(ctx, e, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	return cmd
}

func projectUpdateCmd() *cobra.Command {
	var name, desc, status, priority, startDate, targetDate string
	var tags, objectives, stack []string
	cmd := &cobra.Command{
		Use:   "update <project>",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := resolveProject(ctx, e, args[0])
				if err != nil {
					return err
				}
				opts := engine.ProjectUpdateOptions{}
				if cmd.Flags().Changed("name") {
					opts.Name = &name
				}
				if cmd.Flags().Changed("description") {
					opts.Description = &desc
				}
				if cmd.Flags().Changed("status") {
					opts.Status = &status
				}
				if cmd.Flags().Changed("priority") {
					opts.Priority = &priority
				}
				if cmd.Flags().Changed("start") {
					opts.StartDate = &startDate
				}
				if cmd.Flags().Changed("target") {
					opts.TargetDate = &targetDate
				}
				if cmd.Flags().Changed("tag") {
					opts.Tags = tags
				}
				if cmd.Flags().Changed("objective") {
					opts.Objectives = objectives
				}
				if cmd.Flags().Changed("tech") {
					opts.TechStack = stack
				}
				updated, err := e.UpdateProject(ctx, p.ID, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name")
	cmd.Flags().StringVar(&desc, "description", "", "description")
	cmd.Flags().StringVar(&status, "status", "", "ACTIVE or ARCHIVED")
	cmd.Flags().StringVar(&priority, "priority", "", "LOW, MED or HIGH")
	cmd.Flags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&targetDate, "target", "", "target date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags (replaces the list)")
	cmd.Flags().StringSliceVar(&objectives, "objective", nil, "objectives (replaces the list)")
	cmd.Flags().StringSliceVar(&stack, "tech", nil, "tech stack (replaces the list)")
	return cmd
}

func projectArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <project>",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := resolveProject(ctx, e, args[0])
				if err != nil {
					return err
				}
				archived, err := e.ArchiveProject(ctx, p.ID)
				if err != nil {
					return err
				}
				return printJSONOrTable(archived)
			})
		},
	}
}

func projectDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a project and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete without --yes")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := resolveProject(ctx, e, args[0])
				if err != nil {
					return err
				}
				if err := e.DeleteProject(ctx, p.ID); err != nil {
					return err
				}
				fmt.Printf("Deleted project %s\n", p.Name)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func milestoneCmd() *cobra.Command {
	ms := &cobra.Command{Use: "milestone", Short: "Manage milestones"}
	ms.AddCommand(milestoneAddCmd())
	ms.AddCommand(milestoneListCmd())
	ms.AddCommand(milestoneUpdateCmd())
	ms.AddCommand(milestoneDeleteCmd())
	return ms
}

func milestoneAddCmd() *cobra.Command {
	var due string
	var weight float64
	cmd := &cobra.Command{
		Use:   "add <project> <title>",
		Short: "Add a milestone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := resolveProject(ctx, e, args[0])
				if err != nil {
					return err
				}
				m, err := e.CreateMilestone(ctx, engine.MilestoneCreateOptions{
					ProjectID: p.ID,
					Title:     args[1],
					DueDate:   optionalString(due),
					Weight:    weight,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(m)
			})
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&weight, "weight", 1, "relative weight")
	return cmd
}

func milestoneListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <project>",
		Short: "List a project's milestones with completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := resolveProject(ctx, e, args[0])
				if err != nil {
					return err
				}
				rows, err := e.MilestoneBreakdown(ctx, p.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(rows)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Weight", "Tasks", "Progress"})
				for _, r := range rows {
					tw.AppendRow(table.Row{
						shortID(r.MilestoneID), r.Title, r.Status, fmt.Sprintf("%g", r.Weight),
						fmt.Sprintf("%d/%d", r.TasksDone, r.TasksTotal),
						fmt.Sprintf("%d%%", r.ProgressPercent),
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func milestoneUpdateCmd() *cobra.Command {
	var title, due, status, reason string
	var weight float64
	cmd := &cobra.Command{
		Use:   "update <milestone-id>",
		Short: "Update a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				opts := engine.MilestoneUpdateOptions{}
				if cmd.Flags().Changed("title") {
					opts.Title = &title
				}
				if cmd.Flags().Changed("due") {
					opts.DueDate = &due
				}
				if cmd.Flags().Changed("status") {
					opts.Status = &status
				}
				if cmd.Flags().Changed("weight") {
					opts.Weight = &weight
				}
				if cmd.Flags().Changed("reason") {
					opts.BlockedReason = &reason
				}
				m, err := e.UpdateMilestone(ctx, args[0], opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(m)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "TODO, IN_PROGRESS, DONE or BLOCKED")
	cmd.Flags().Float64Var(&weight, "weight", 0, "relative weight")
	cmd.Flags().StringVar(&reason, "reason", "", "blocked reason")
	return cmd
}

func milestoneDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <milestone-id>",
		Short: "Delete a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteMilestone(ctx, args[0])
			})
		},
	}
}

func taskCmd() *cobra.Command {
	tk := &cobra.Command{Use: "task", Short: "Manage tasks"}
	tk.AddCommand(taskAddCmd())
	tk.AddCommand(taskListCmd())
	tk.AddCommand(taskUpdateCmd())
	tk.AddCommand(taskDoneCmd())
	tk.AddCommand(taskBlockCmd())
	tk.AddCommand(taskDeleteCmd())
	return tk
}

func taskAddCmd() *cobra.Command {
	var milestoneID, due string
	var points float64
	cmd := &cobra.Command{
		Use:   "add <project> <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := resolveProject(ctx, e, args[0])
				if err != nil {
					return err
				}
				t, err := e.CreateTask(ctx, engine.TaskCreateOptions{
					ProjectID:   p.ID,
					MilestoneID: optionalString(milestoneID),
					Title:       args[1],
					DueDate:     optionalString(due),
					Points:      points,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&milestoneID, "milestone", "", "milestone id")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&points, "points", 0, "effort points (defaults from config)")
	return cmd
}

func taskListCmd() *cobra.Command {
	var project, milestoneID, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				filters := taskFilters(ctx, e, project, milestoneID, status)
				tasks, err := e.Repo.ListTasks(ctx, filters)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Points", "Due", "Milestone"})
				for _, t := range tasks {
					tw.AppendRow(table.Row{
						shortID(t.ID), t.Title, t.Status, fmt.Sprintf("%g", t.Points),
						deref(t.DueDate), shortID(deref(t.MilestoneID)),
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project name or id")
	cmd.Flags().StringVar(&milestoneID, "milestone", "", "milestone id")
	cmd.Flags().StringVar(&status, "status", "", "TODO, DOING, DONE or BLOCKED")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var title, status, due, milestoneID, reason string
	var points float64
	var order int
	var clearMilestone bool
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				opts := engine.TaskUpdateOptions{ClearMilestone: clearMilestone}
				if cmd.Flags().Changed("title") {
					opts.Title = &title
				}
				if cmd.Flags().Changed("status") {
					opts.Status = &status
				}
				if cmd.Flags().Changed("due") {
					opts.DueDate = &due
				}
				if cmd.Flags().Changed("milestone") {
					opts.MilestoneID = &milestoneID
				}
				if cmd.Flags().Changed("points") {
					opts.Points = &points
				}
				if cmd.Flags().Changed("order") {
					opts.Order = &order
				}
				if cmd.Flags().Changed("reason") {
					opts.BlockedReason = &reason
				}
				t, err := e.UpdateTask(ctx, args[0], opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&status, "status", "", "TODO, DOING, DONE or BLOCKED")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&milestoneID, "milestone", "", "milestone id")
	cmd.Flags().BoolVar(&clearMilestone, "no-milestone", false, "detach from milestone")
	cmd.Flags().Float64Var(&points, "points", 0, "effort points")
	cmd.Flags().IntVar(&order, "order", 0, "sort order")
	cmd.Flags().StringVar(&reason, "reason", "", "blocked reason")
	return cmd
}

func taskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				status := domain.TaskDone
				t, err := e.UpdateTask(ctx, args[0], engine.TaskUpdateOptions{Status: &status})
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
}

func taskBlockCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "block <task-id>",
		Short: "Mark a task blocked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				status := domain.TaskBlocked
				opts := engine.TaskUpdateOptions{Status: &status}
				if reason != "" {
					opts.BlockedReason = &reason
				}
				t, err := e.UpdateTask(ctx, args[0], opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "blocked reason")
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteTask(ctx, args[0])
			})
		},
	}
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [project]",
		Short: "Dashboard of project progress and health",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if len(args) == 1 {
					return printProjectStatus(ctx, e, args[0])
				}
				projects, err := e.Repo.ListProjects(ctx, domain.ProjectActive)
				if err != nil {
					return err
				}
				type row struct {
					Project string                 `json:"project"`
					Stats   domain.ProjectProgress `json:"stats"`
				}
				var rows []row
				for _, p := range projects {
					stats, err := e.ProjectStats(ctx, p.ID)
					if err != nil {
						return err
					}
					rows = append(rows, row{Project: p.Name, Stats: stats})
				}
				if viper.GetBool("json") {
					return printJSON(rows)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Project", "Progress", "Tasks", "Points", "Blocked", "Health"})
				for _, r := range rows {
					tw.AppendRow(table.Row{
						r.Project, fmt.Sprintf("%d%%", r.Stats.ProgressPercent),
						fmt.Sprintf("%d/%d", r.Stats.TasksDone, r.Stats.TasksTotal),
						fmt.Sprintf("%g/%g", r.Stats.PointsDone, r.Stats.PointsTotal),
						r.Stats.BlockedCount, r.Stats.Health,
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func printProjectStatus(ctx context.Context, e engine.Engine, ref string) error {
	p, err := resolveProject(ctx, e, ref)
	if err != nil {
		return err
	}
	stats, err := e.ProjectStats(ctx, p.ID)
	if err != nil {
		return err
	}
	breakdown, err := e.MilestoneBreakdown(ctx, p.ID)
	if err != nil {
		return err
	}
	counts, err := e.Repo.CountTasksByStatus(ctx, p.ID)
	if err != nil {
		return err
	}
	if viper.GetBool("json") {
		return printJSON(map[string]any{
			"project":         p,
			"stats":           stats,
			"milestones":      breakdown,
			"tasks_by_status": counts,
		})
	}
	fmt.Printf("%s  [%s / %s]  %d%%  %s\n", p.Name, p.Status, p.Priority, stats.ProgressPercent, stats.Health)
	fmt.Printf("Tasks %d/%d  Points %g/%g  Blocked %d\n",
		stats.TasksDone, stats.TasksTotal, stats.PointsDone, stats.PointsTotal, stats.BlockedCount)
	fmt.Printf("By status: TODO %d  DOING %d  DONE %d  BLOCKED %d\n\n",
		counts[domain.TaskTodo], counts[domain.TaskDoing], counts[domain.TaskDone], counts[domain.TaskBlocked])
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Milestone", "Status", "Weight", "Tasks", "Progress"})
	for _, m := range breakdown {
		tw.AppendRow(table.Row{
			m.Title, m.Status, fmt.Sprintf("%g", m.Weight),
			fmt.Sprintf("%d/%d", m.TasksDone, m.TasksTotal),
			fmt.Sprintf("%d%%", m.ProgressPercent),
		})
	}
	tw.Render()
	return nil
}

func calendarCmd() *cobra.Command {
	var project, from, to string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Dated events from projects, milestones and tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var events []domain.CalendarEvent
				var err error
				if project != "" {
					p, perr := resolveProject(ctx, e, project)
					if perr != nil {
						return perr
					}
					events, err = e.ProjectCalendar(ctx, p.ID, from, to)
				} else {
					events, err = e.GlobalCalendar(ctx, from, to)
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(events)
				}
				byDate := calendar.GroupByDate(events)
				// events arrive date-sorted; walk them in order, printing each
				// day header once
				lastDate := ""
				for _, evt := range events {
					if evt.Date != lastDate {
						fmt.Printf("\n%s\n", evt.Date)
						lastDate = evt.Date
					}
					fmt.Printf("  %-10s %s\n", evt.Type, evt.Title)
				}
				if len(byDate) == 0 {
					fmt.Println("No events in range.")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "limit to one project")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	return cmd
}

func reportCmd() *cobra.Command {
	rp := &cobra.Command{Use: "report", Short: "Weekly reports"}
	rp.AddCommand(reportGenerateCmd())
	rp.AddCommand(reportListCmd())
	rp.AddCommand(reportShowCmd())
	rp.AddCommand(reportDeleteCmd())
	return rp
}

func reportGenerateCmd() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "generate <project>",
		Short: "Generate a weekly report (defaults to the current week)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := resolveProject(ctx, e, args[0])
				if err != nil {
					return err
				}
				r, err := e.GenerateWeeklyReport(ctx, p.ID, start, end)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(r)
				}
				fmt.Println(r.Markdown)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "period end (YYYY-MM-DD)")
	return cmd
}

func reportListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <project>",
		Short: "List a project's reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := resolveProject(ctx, e, args[0])
				if err != nil {
					return err
				}
				reports, err := e.Repo.ListReports(ctx, p.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(reports)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Period", "Progress", "Delta"})
				for _, r := range reports {
					tw.AppendRow(table.Row{
						shortID(r.ID),
						fmt.Sprintf("%s .. %s", r.PeriodStart, r.PeriodEnd),
						fmt.Sprintf("%d%% -> %d%%", r.ProgressStart, r.ProgressEnd),
						fmt.Sprintf("%+d", r.Delta),
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func reportShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <report-id>",
		Short: "Print a report's Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				r, err := e.Repo.GetReport(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(r)
				}
				fmt.Println(r.Markdown)
				return nil
			})
		},
	}
}

func reportDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <report-id>",
		Short: "Delete a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteReport(ctx, args[0])
			})
		},
	}
}

func docCmd() *cobra.Command {
	var save bool
	var out string
	cmd := &cobra.Command{
		Use:   "doc <project> <type>",
		Short: "Generate a project document",
		Long:  "Renders one of README, SPEC, ARCHITECTURE, RUNBOOK, CHANGELOG or ADR from live project data.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := resolveProject(ctx, e, args[0])
				if err != nil {
					return err
				}
				docType := strings.ToUpper(args[1])
				if save {
					meta, err := e.SaveGeneratedDocument(ctx, p.ID, docType)
					if err != nil {
						return err
					}
					return printJSONOrTable(meta)
				}
				doc, err := e.GenerateDocument(ctx, p.ID, docType, false)
				if err != nil {
					return err
				}
				if out != "" {
					if err := os.WriteFile(out, []byte(doc.Markdown), 0o644); err != nil {
						return err
					}
					fmt.Printf("Wrote %s\n", out)
					return nil
				}
				if viper.GetBool("json") {
					return printJSON(doc)
				}
				fmt.Println(doc.Markdown)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "store the rendered document as an attachment")
	cmd.Flags().StringVar(&out, "out", "", "write Markdown to a file")
	return cmd
}

func fileCmd() *cobra.Command {
	fc := &cobra.Command{Use: "file", Short: "Attachments"}
	fc.AddCommand(fileAddCmd())
	fc.AddCommand(fileListCmd())
	fc.AddCommand(fileGetCmd())
	fc.AddCommand(fileDeleteCmd())
	fc.AddCommand(fileStatsCmd())
	return fc
}

func fileAddCmd() *cobra.Command {
	var project, title, mime string
	var tags []string
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Upload a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				var projectID *string
				if project != "" {
					p, err := resolveProject(ctx, e, project)
					if err != nil {
						return err
					}
					projectID = &p.ID
				}
				meta, err := e.UploadAttachment(ctx, engine.AttachmentOptions{
					ProjectID: projectID,
					Title:     title,
					FileName:  filepath.Base(args[0]),
					MimeType:  mime,
					Tags:      tags,
					Data:      data,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(meta)
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project name or id")
	cmd.Flags().StringVar(&title, "title", "", "display title")
	cmd.Flags().StringVar(&mime, "mime", "", "MIME type")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags")
	return cmd
}

func fileListCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attachments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				projectID := ""
				if project != "" {
					p, err := resolveProject(ctx, e, project)
					if err != nil {
						return err
					}
					projectID = p.ID
				}
				docs, err := e.Repo.ListDocuments(ctx, projectID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(docs)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "File", "Size", "Mode", "Created"})
				for _, d := range docs {
					tw.AppendRow(table.Row{
						shortID(d.ID), d.FileName,
						fmt.Sprintf("%.1f KB", float64(d.SizeBytes)/1024),
						d.StorageMode, d.CreatedAt,
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project name or id")
	return cmd
}

func fileGetCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "get <attachment-id>",
		Short: "Download an attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				data, meta, err := e.DownloadAttachment(ctx, args[0])
				if err != nil {
					return err
				}
				dest := out
				if dest == "" {
					dest = meta.FileName
				}
				if err := os.WriteFile(dest, data, 0o644); err != nil {
					return err
				}
				fmt.Printf("Wrote %s (%d bytes)\n", dest, len(data))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (defaults to the stored file name)")
	return cmd
}

func fileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <attachment-id>",
		Short: "Delete an attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteAttachment(ctx, args[0])
			})
		},
	}
}

func fileStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Storage usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				stats, err := e.AttachmentStats(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(stats)
			})
		},
	}
}

func settingsCmd() *cobra.Command {
	sc := &cobra.Command{Use: "settings", Short: "Workspace settings"}
	sc.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.Settings(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	})
	var limit float64
	setLimit := &cobra.Command{
		Use:   "set-embed-limit",
		Short: "Set the embedded storage size threshold (MB)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.UpdateEmbedLimit(ctx, limit)
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	setLimit.Flags().Float64Var(&limit, "mb", 20, "size threshold in MB")
	sc.AddCommand(setLimit)
	return sc
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			conn, cfg, err := app.Open(cmd.Context(), workspace)
			if err != nil {
				return err
			}
			defer conn.Close()
			e, err := engine.New(conn, cfg)
			if err != nil {
				return err
			}
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
			fmt.Printf("Serving Orga API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

// --- helpers ---

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, cfg, err := app.Open(ctx, workspace)
	if err != nil {
		return err
	}
	defer conn.Close()
	e, err := engine.New(conn, cfg)
	if err != nil {
		return err
	}
	return fn(ctx, e)
}

// resolveProject accepts either a project id or a project name.
func resolveProject(ctx context.Context, e engine.Engine, ref string) (domain.Project, error) {
	p, err := e.Repo.GetProject(ctx, ref)
	if err == nil {
		return p, nil
	}
	return e.Repo.FindProjectByName(ctx, ref)
}

func taskFilters(ctx context.Context, e engine.Engine, project, milestoneID, status string) (f repo.TaskFilters) {
	if project != "" {
		if p, err := resolveProject(ctx, e, project); err == nil {
			f.ProjectID = p.ID
		} else {
			f.ProjectID = project
		}
	}
	f.MilestoneID = milestoneID
	f.Status = status
	return f
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

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
