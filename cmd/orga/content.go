package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"orga/internal/engine"
)

func noteCmd() *cobra.Command {
	nc := &cobra.Command{Use: "note", Short: "Markdown notes"}
	nc.AddCommand(noteAddCmd())
	nc.AddCommand(noteListCmd())
	nc.AddCommand(noteShowCmd())
	nc.AddCommand(noteEditCmd())
	nc.AddCommand(noteDeleteCmd())
	return nc
}

func noteAddCmd() *cobra.Command {
	var project, content, file string
	var tags []string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				body := content
				if file != "" {
					data, err := os.ReadFile(file)
					if err != nil {
						return err
					}
					body = string(data)
				}
				projectID, err := optionalProjectID(ctx, e, project)
				if err != nil {
					return err
				}
				n, err := e.CreateNote(ctx, engine.NoteOptions{
					ProjectID: projectID,
					Title:     args[0],
					ContentMD: body,
					Tags:      tags,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(n)
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project name or id")
	cmd.Flags().StringVar(&content, "content", "", "Markdown body")
	cmd.Flags().StringVar(&file, "file", "", "read the body from a file")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags")
	return cmd
}

func noteListCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
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
				notes, err := e.Repo.ListNotes(ctx, projectID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(notes)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Updated"})
				for _, n := range notes {
					tw.AppendRow(table.Row{shortID(n.ID), n.Title, n.UpdatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project name or id")
	return cmd
}

func noteShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <note-id>",
		Short: "Print a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				n, err := e.Repo.GetNote(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(n)
				}
				fmt.Printf("# %s\n\n%s\n", n.Title, n.ContentMD)
				return nil
			})
		},
	}
}

func noteEditCmd() *cobra.Command {
	var title, content, file string
	var tags []string
	cmd := &cobra.Command{
		Use:   "edit <note-id>",
		Short: "Edit a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				current, err := e.Repo.GetNote(ctx, args[0])
				if err != nil {
					return err
				}
				opts := engine.NoteOptions{
					ProjectID: current.ProjectID,
					Title:     current.Title,
					ContentMD: current.ContentMD,
					Tags:      current.Tags,
				}
				if cmd.Flags().Changed("title") {
					opts.Title = title
				}
				if cmd.Flags().Changed("content") {
					opts.ContentMD = content
				}
				if file != "" {
					data, err := os.ReadFile(file)
					if err != nil {
						return err
					}
					opts.ContentMD = string(data)
				}
				if cmd.Flags().Changed("tag") {
					opts.Tags = tags
				}
				n, err := e.UpdateNote(ctx, args[0], opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(n)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&content, "content", "", "Markdown body")
	cmd.Flags().StringVar(&file, "file", "", "read the body from a file")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags (replaces the list)")
	return cmd
}

func noteDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteNote(ctx, args[0])
			})
		},
	}
}

func snippetCmd() *cobra.Command {
	sc := &cobra.Command{Use: "snippet", Short: "Code snippets"}
	sc.AddCommand(snippetAddCmd())
	sc.AddCommand(snippetListCmd())
	sc.AddCommand(snippetShowCmd())
	sc.AddCommand(snippetDeleteCmd())
	return sc
}

func snippetAddCmd() *cobra.Command {
	var project, lang, code, file string
	var tags []string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a code snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				body := code
				if file != "" {
					data, err := os.ReadFile(file)
					if err != nil {
						return err
					}
					body = string(data)
				}
				projectID, err := optionalProjectID(ctx, e, project)
				if err != nil {
					return err
				}
				s, err := e.CreateSnippet(ctx, engine.SnippetOptions{
					ProjectID: projectID,
					Title:     args[0],
					Language:  lang,
					Code:      body,
					Tags:      tags,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project name or id")
	cmd.Flags().StringVar(&lang, "lang", "", "language")
	cmd.Flags().StringVar(&code, "code", "", "snippet body")
	cmd.Flags().StringVar(&file, "file", "", "read the body from a file")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags")
	return cmd
}

func snippetListCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List code snippets",
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
				snippets, err := e.Repo.ListSnippets(ctx, projectID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(snippets)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Language", "Updated"})
				for _, s := range snippets {
					tw.AppendRow(table.Row{shortID(s.ID), s.Title, s.Language, s.UpdatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project name or id")
	return cmd
}

func snippetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <snippet-id>",
		Short: "Print a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.Repo.GetSnippet(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(s)
				}
				fmt.Printf("%s (%s)\n\n%s\n", s.Title, s.Language, s.Code)
				return nil
			})
		},
	}
}

func snippetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <snippet-id>",
		Short: "Delete a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteSnippet(ctx, args[0])
			})
		},
	}
}

func optionalProjectID(ctx context.Context, e engine.Engine, ref string) (*string, error) {
	if ref == "" {
		return nil, nil
	}
	p, err := resolveProject(ctx, e, ref)
	if err != nil {
		return nil, err
	}
	return &p.ID, nil
}
