package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/config"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/rgehrsitz/horizon/internal/milestone"
	"github.com/rgehrsitz/horizon/internal/tui/scenes"
)

// Model represents the entire viewer state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Configuration and data
	configPath string
	config     *domain.SimulationConfiguration
	result     *domain.SimulationResult
	detection  domain.DetectionResult

	engine   *calculation.Engine
	detector *milestone.Detector

	milestonesModel *scenes.MilestonesModel

	err     error
	loading bool
}

// NewModel creates a viewer that loads and runs the configuration at configPath
func NewModel(configPath string, engine *calculation.Engine, detector *milestone.Detector) Model {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	if detector == nil {
		detector = milestone.NewDetector(milestone.DefaultOptions())
	}
	return Model{
		currentScene:    SceneOverview,
		configPath:      configPath,
		engine:          engine,
		detector:        detector,
		milestonesModel: scenes.NewMilestonesModel(),
		width:           80,
		height:          24,
		loading:         true,
	}
}

// Init starts the projection run
func (m Model) Init() tea.Cmd {
	return runCmd(m.configPath, m.engine, m.detector)
}

func runCmd(path string, engine *calculation.Engine, detector *milestone.Detector) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to load configuration: %w", err)}
		}
		ctx := context.Background()
		result, err := engine.Run(ctx, *cfg)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("simulation failed: %w", err)}
		}
		detection := detector.Detect(ctx, milestone.InputFromResult(*cfg, result))
		return RunCompleteMsg{Config: cfg, Result: result, Detection: detection}
	}
}
