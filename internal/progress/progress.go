// Package progress computes completion ratios, percentages and health for
// projects and milestones. All functions are pure: they never touch storage,
// never panic, and degrade to zero on empty or degenerate input.
package progress

import (
	"math"
	"time"

	"orga/internal/domain"
)

// MilestoneProgress returns the completion ratio of a milestone in [0, 1].
// A milestone marked DONE is complete regardless of its tasks. Otherwise the
// ratio is done points over total points across the milestone's tasks; a
// milestone with no tasks, or whose tasks carry zero total points, is at 0.
func MilestoneProgress(milestone domain.Milestone, tasks []domain.Task) float64 {
	if milestone.Status == "DONE" {
		return 1
	}

	var totalPoints, donePoints float64
	var count int
	for _, t := range tasks {
		if t.MilestoneID == nil || *t.MilestoneID != milestone.ID {
			continue
		}
		count++
		totalPoints += t.Points
		if t.Status == "DONE" {
			donePoints += t.Points
		}
	}

	if count == 0 || totalPoints == 0 {
		return 0
	}
	return donePoints / totalPoints
}

// ProjectProgress returns the project's overall progress as an integer
// percentage, the weighted average of milestone ratios:
//
//	sum(weight_i * ratio_i) / sum(weight_i) * 100
//
// rounded half away from zero. Projects with no milestones, or whose
// milestone weights sum to zero, are at 0.
func ProjectProgress(project domain.Project, milestones []domain.Milestone, tasks []domain.Task) int {
	var totalWeight, weighted float64
	var count int
	for _, m := range milestones {
		if m.ProjectID != project.ID {
			continue
		}
		count++
		totalWeight += m.Weight
		weighted += m.Weight * MilestoneProgress(m, tasks)
	}

	if count == 0 || totalWeight == 0 {
		return 0
	}
	return int(math.Round(weighted / totalWeight * 100))
}

// ProjectHealth classifies a project. Blockers dominate: any blocked task or
// milestone makes the project AT_RISK. Absent blockers, a project whose
// calendar day is strictly past its target date with progress under 100 is
// LATE; the target day itself still counts as on track, regardless of
// time of day. Everything else, including projects without a target date
// and unparseable dates, is ON_TRACK.
func ProjectHealth(project domain.Project, progressPercent, blockedCount int, now time.Time) string {
	if blockedCount > 0 {
		return domain.HealthAtRisk
	}

	if project.TargetDate != nil {
		if _, err := time.Parse("2006-01-02", *project.TargetDate); err == nil &&
			now.Format("2006-01-02") > *project.TargetDate && progressPercent < 100 {
			return domain.HealthLate
		}
	}

	return domain.HealthOnTrack
}

// ProjectStats computes the full stats view for a project: task and point
// tallies over the project's tasks, weighted progress over its milestones,
// blocked count (blocked tasks plus blocked milestones) and derived health.
func ProjectStats(project domain.Project, milestones []domain.Milestone, tasks []domain.Task, now time.Time) domain.ProjectProgress {
	var stats domain.ProjectProgress

	for _, t := range tasks {
		if t.ProjectID != project.ID {
			continue
		}
		stats.TasksTotal++
		stats.PointsTotal += t.Points
		switch t.Status {
		case "DONE":
			stats.TasksDone++
			stats.PointsDone += t.Points
		case "BLOCKED":
			stats.BlockedCount++
		}
	}

	for _, m := range milestones {
		if m.ProjectID == project.ID && m.Status == "BLOCKED" {
			stats.BlockedCount++
		}
	}

	stats.ProgressPercent = ProjectProgress(project, milestones, tasks)
	stats.Health = ProjectHealth(project, stats.ProgressPercent, stats.BlockedCount, now)
	return stats
}

// MilestonesProgress computes per-milestone progress for every milestone of
// the given project, in the order the milestones were passed.
func MilestonesProgress(projectID string, milestones []domain.Milestone, tasks []domain.Task) []domain.MilestoneProgress {
	out := []domain.MilestoneProgress{}
	for _, m := range milestones {
		if m.ProjectID != projectID {
			continue
		}
		mp := domain.MilestoneProgress{
			MilestoneID:     m.ID,
			Title:           m.Title,
			Status:          m.Status,
			Weight:          m.Weight,
			ProgressPercent: int(math.Round(MilestoneProgress(m, tasks) * 100)),
		}
		for _, t := range tasks {
			if t.MilestoneID != nil && *t.MilestoneID == m.ID {
				mp.TasksTotal++
				if t.Status == "DONE" {
					mp.TasksDone++
				}
			}
		}
		out = append(out, mp)
	}
	return out
}
