package tui

import (
	"github.com/rgehrsitz/horizon/internal/domain"
)

// Scene is one screen of the viewer
type Scene int

const (
	SceneOverview Scene = iota
	SceneMilestones
	SceneTimeline
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneOverview:
		return "Overview"
	case SceneMilestones:
		return "Milestones"
	case SceneTimeline:
		return "Timeline"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// RunCompleteMsg carries a finished projection and its milestones
type RunCompleteMsg struct {
	Config    *domain.SimulationConfiguration
	Result    *domain.SimulationResult
	Detection domain.DetectionResult
}
