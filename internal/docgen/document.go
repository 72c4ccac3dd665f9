package docgen

import (
	"fmt"
	"strings"
	"time"

	"orga/internal/domain"
)

// Node is one typed block of a structured document. Kind is "heading",
// "paragraph" or "list_item"; Level applies to headings only; Bold styles
// the whole node.
type Node struct {
	Kind  string `json:"kind" enum:"heading,paragraph,list_item"`
	Level int    `json:"level,omitempty"`
	Text  string `json:"text"`
	Bold  bool   `json:"bold,omitempty"`
}

// Document is the rich-text rendering target: a flat node sequence a
// word-processor exporter can consume. It shares its derivation with the
// Markdown renderer; only the output shape differs.
type Document struct {
	Title string `json:"title"`
	Nodes []Node `json:"nodes"`
}

func heading(level int, text string) Node  { return Node{Kind: "heading", Level: level, Text: text} }
func para(text string) Node                { return Node{Kind: "paragraph", Text: text} }
func boldPara(text string) Node            { return Node{Kind: "paragraph", Text: text, Bold: true} }
func item(text string) Node                { return Node{Kind: "list_item", Text: text} }

// BuildDocument produces the structured-document form of the given type.
func BuildDocument(docType string, project domain.Project, milestones []domain.Milestone, tasks []domain.Task, events []domain.ActivityEvent, now time.Time) (*Document, error) {
	s := Derive(project, milestones, tasks, events, now)

	var nodes []Node
	var title string
	switch docType {
	case TypeReadme:
		title = s.Project.Name
		nodes = buildReadmeNodes(s)
	case TypeSpec:
		title = "Specification - " + s.Project.Name
		nodes = buildSpecNodes(s)
	case TypeArchitecture:
		title = "Architecture - " + s.Project.Name
		nodes = buildArchitectureNodes(s)
	case TypeRunbook:
		title = "Runbook - " + s.Project.Name
		nodes = buildRunbookNodes(s)
	case TypeChangelog:
		title = "Changelog - " + s.Project.Name
		nodes = buildChangelogNodes(s)
	case TypeADR:
		title = "ADR - Weighted Milestone Tracking for " + s.Project.Name
		nodes = buildADRNodes(s)
	default:
		return nil, fmt.Errorf("unknown document type %q", docType)
	}

	nodes = append(nodes, para("Generated on "+s.GeneratedAt))
	return &Document{Title: title, Nodes: nodes}, nil
}

func buildReadmeNodes(s Snapshot) []Node {
	nodes := []Node{heading(1, s.Project.Name)}
	if s.Project.Description != "" {
		nodes = append(nodes, para(s.Project.Description))
	}

	nodes = append(nodes, heading(2, "Overview"),
		item("Status: "+s.Project.Status),
		item("Priority: "+s.Project.Priority),
		item("Start date: "+s.StartDate),
		item("Target date: "+s.TargetDate))

	nodes = append(nodes, heading(2, "Progress"),
		boldPara(fmt.Sprintf("%d%% overall, health %s", s.Stats.ProgressPercent, s.Stats.Health)),
		para(fmt.Sprintf("%d/%d tasks done (%g/%g points)", s.Stats.TasksDone, s.Stats.TasksTotal, s.Stats.PointsDone, s.Stats.PointsTotal)))

	nodes = append(nodes, heading(2, "Milestones"))
	if len(s.Milestones) == 0 {
		nodes = append(nodes, para("No milestones defined yet."))
	}
	for _, m := range s.Milestones {
		nodes = append(nodes, item(fmt.Sprintf("[%s] %s - %d%% (weight %d%%, %d tasks, due %s)",
			m.StatusSymbol, m.Title, m.Progress, m.WeightPercent, m.TasksCount, m.DueDate)))
	}

	nodes = append(nodes, heading(2, "Tasks by Status"),
		item(fmt.Sprintf("Done: %d", len(s.Completed))),
		item(fmt.Sprintf("In progress: %d", len(s.InProgress))),
		item(fmt.Sprintf("To do: %d", len(s.Todo))),
		item(fmt.Sprintf("Blocked: %d", len(s.Blocked))))
	return nodes
}

func buildSpecNodes(s Snapshot) []Node {
	nodes := []Node{heading(1, "Specification - " + s.Project.Name), heading(2, "Description")}
	if s.Project.Description != "" {
		nodes = append(nodes, para(s.Project.Description))
	} else {
		nodes = append(nodes, para("No description provided."))
	}

	if len(s.Project.Objectives) > 0 {
		nodes = append(nodes, heading(2, "Objectives"))
		for _, o := range s.Project.Objectives {
			nodes = append(nodes, item(o))
		}
	}

	nodes = append(nodes, heading(2, "Scope"),
		item(fmt.Sprintf("Milestones: %d", s.MilestonesCount)),
		item(fmt.Sprintf("Tasks: %d", s.Stats.TasksTotal)),
		item(fmt.Sprintf("Total points: %g", s.Stats.PointsTotal)))

	nodes = append(nodes, heading(2, "Work Breakdown"))
	if len(s.Milestones) == 0 {
		nodes = append(nodes, para("No milestones defined yet."))
	}
	for _, m := range s.Milestones {
		nodes = append(nodes, heading(3, fmt.Sprintf("%d. %s", m.Order, m.Title)),
			para(fmt.Sprintf("Due %s, weight %d%%, %g points.", m.DueDate, m.WeightPercent, m.TaskPoints)))
		for _, t := range m.Tasks {
			nodes = append(nodes, item(fmt.Sprintf("[%s] %s (%g pts)", t.StatusSymbol, t.Title, t.Points)))
		}
	}
	return nodes
}

func buildArchitectureNodes(s Snapshot) []Node {
	nodes := []Node{heading(1, "Architecture - " + s.Project.Name), heading(2, "Components")}
	if len(s.Milestones) == 0 {
		nodes = append(nodes, para("No components defined yet."))
	}
	for _, m := range s.Milestones {
		nodes = append(nodes, heading(3, m.Title),
			para(fmt.Sprintf("Weight %d%% of the system, %d tasks.", m.WeightPercent, m.TasksCount)))
		shown := m.Tasks
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, t := range shown {
			nodes = append(nodes, item(t.Title))
		}
		if len(m.Tasks) > 5 {
			nodes = append(nodes, item(fmt.Sprintf("...and %d more", len(m.Tasks)-5)))
		}
	}
	if len(s.Project.TechStack) > 0 {
		nodes = append(nodes, heading(2, "Technology Stack"))
		for _, tech := range s.Project.TechStack {
			nodes = append(nodes, item(tech))
		}
	}
	return nodes
}

func buildRunbookNodes(s Snapshot) []Node {
	nodes := []Node{heading(1, "Runbook - " + s.Project.Name), heading(2, "In Progress")}
	if len(s.InProgress) == 0 {
		nodes = append(nodes, para("No task currently in progress."))
	}
	for _, t := range s.InProgress {
		nodes = append(nodes, item(fmt.Sprintf("%s (%s, %g pts)", t.Title, t.MilestoneName, t.Points)))
	}

	nodes = append(nodes, heading(2, "Up Next"))
	upcoming := s.Todo
	if len(upcoming) > 10 {
		upcoming = upcoming[:10]
	}
	if len(upcoming) == 0 {
		nodes = append(nodes, para("No task currently due."))
	}
	for _, t := range upcoming {
		nodes = append(nodes, item(fmt.Sprintf("%s (%s, %g pts)", t.Title, t.MilestoneName, t.Points)))
	}

	if len(s.Blocked) > 0 {
		nodes = append(nodes, heading(2, "Blockers"))
		for _, t := range s.Blocked {
			reason := t.BlockedReason
			if reason == "" {
				reason = "not specified"
			}
			nodes = append(nodes, item(t.Title+": "+reason))
		}
	}
	return nodes
}

func buildChangelogNodes(s Snapshot) []Node {
	nodes := []Node{heading(1, "Changelog - " + s.Project.Name),
		para("Last updated: " + s.UpdatedAt),
		heading(2, "Completed Tasks")}
	if len(s.Completed) == 0 {
		nodes = append(nodes, para("Nothing completed yet."))
	}
	for _, t := range s.Completed {
		nodes = append(nodes, item(fmt.Sprintf("%s (%s, %g pts, completed %s)", t.Title, t.MilestoneName, t.Points, t.UpdatedAt)))
	}

	nodes = append(nodes, heading(2, "Recent Activity"))
	if len(s.RecentActivity) == 0 {
		nodes = append(nodes, para("No recorded activity."))
	}
	shown := 0
	for _, day := range s.RecentActivity {
		if shown >= 20 {
			break
		}
		nodes = append(nodes, heading(3, day.Date))
		for _, e := range day.Events {
			if shown >= 20 {
				break
			}
			nodes = append(nodes, item(e.Time+" "+e.Description))
			shown++
		}
	}
	return nodes
}

func buildADRNodes(s Snapshot) []Node {
	return []Node{
		heading(1, "ADR - Weighted Milestone Tracking for " + s.Project.Name),
		para("Date: " + s.CreatedAt),
		para("Status: Accepted"),
		heading(2, "Context"),
		para(fmt.Sprintf("The project tracks delivery through %d milestones carrying a total weight of %g, broken down into %d tasks worth %g points.",
			s.MilestonesCount, s.TotalWeight, s.Stats.TasksTotal, s.Stats.PointsTotal)),
		para("Progress needed a single number that reflects both how much work each phase represents and how far along each phase is, without requiring every task to be sized identically."),
		heading(2, "Decision"),
		para("Each milestone carries a weight expressing its share of the overall effort. A milestone's own progress is the point-weighted fraction of its completed tasks, and overall progress is the weight-normalized sum across milestones. A milestone marked done counts as fully complete regardless of remaining task bookkeeping."),
		heading(2, "Consequences"),
		item("Re-weighting a milestone re-scales history; progress numbers are only comparable within one weighting scheme."),
		item("Milestones without tasks contribute nothing until tasks are added or the milestone is closed."),
		item("Point estimates drive milestone ratios, so unsized backlogs degrade precision but never break the computation."),
	}
}

// Filename derives the deterministic download name for a document: the
// project name lower-cased with non-alphanumeric runs collapsed to hyphens,
// the type tag, and for dated types the generation day.
func Filename(docType, projectName string, now time.Time) string {
	var slug strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(projectName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			slug.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			slug.WriteByte('-')
			lastHyphen = true
		}
	}
	safe := slug.String()
	day := now.Format("2006-01-02")

	switch docType {
	case TypeReadme, TypeRunbook:
		return fmt.Sprintf("%s-%s.md", safe, docType)
	default:
		return fmt.Sprintf("%s-%s-%s.md", safe, docType, day)
	}
}
