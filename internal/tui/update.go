package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.milestonesModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		m.loading = false
		return m, nil

	case RunCompleteMsg:
		m.loading = false
		m.err = nil
		m.config = msg.Config
		m.result = msg.Result
		m.detection = msg.Detection
		m.milestonesModel.SetMilestones(msg.Detection.Milestones)
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes global shortcuts before the scene sees the key
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		return m, navigate(SceneHelp)
	case "esc":
		if m.currentScene != SceneOverview {
			return m, navigate(m.previousScene)
		}
	case "o":
		return m, navigate(SceneOverview)
	case "m":
		return m, navigate(SceneMilestones)
	case "t":
		return m, navigate(SceneTimeline)
	case "r":
		if !m.loading {
			m.loading = true
			m.detector.ResetCache()
			return m, runCmd(m.configPath, m.engine, m.detector)
		}
	}
	return m.updateCurrentScene(msg)
}

func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.currentScene == SceneMilestones {
		var cmd tea.Cmd
		m.milestonesModel, cmd = m.milestonesModel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: s}
	}
}
