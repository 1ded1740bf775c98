package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/horizon/internal/tui/tuistyles"
)

const yAxisWidth = 10

// LineChart plots one series with optional marked points
type LineChart struct {
	Title  string
	Points []float64
	Marks  map[int]bool // indexes drawn with a marker
	Width  int
	Height int
}

// NewLineChart creates a chart of the given size
func NewLineChart(title string, points []float64, width, height int) *LineChart {
	return &LineChart{Title: title, Points: points, Marks: map[int]bool{}, Width: width, Height: height}
}

// Mark highlights the point at index
func (c *LineChart) Mark(index int) *LineChart {
	c.Marks[index] = true
	return c
}

// Render draws the chart as text
func (c *LineChart) Render() string {
	if len(c.Points) == 0 || c.Height < 2 || c.Width <= yAxisWidth+2 {
		return tuistyles.InfoStyle.Render("No data to display")
	}
	lo, hi := bounds(c.Points)
	plotWidth := c.Width - yAxisWidth - 3

	grid := make([][]rune, c.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", plotWidth))
	}

	pos := func(i int) (int, int) {
		x := 0
		if len(c.Points) > 1 {
			x = i * (plotWidth - 1) / (len(c.Points) - 1)
		}
		y := c.Height - 1 - int((c.Points[i]-lo)/(hi-lo)*float64(c.Height-1))
		return x, y
	}
	for i := range c.Points {
		x, y := pos(i)
		if i > 0 {
			px, py := pos(i - 1)
			line(grid, px, py, x, y, '·')
		}
		if y >= 0 && y < c.Height {
			grid[y][x] = '•'
		}
	}
	for i := range c.Marks {
		if i < 0 || i >= len(c.Points) {
			continue
		}
		x, y := pos(i)
		if y >= 0 && y < c.Height {
			grid[y][x] = '◆'
		}
	}

	var out strings.Builder
	if c.Title != "" {
		out.WriteString(tuistyles.TitleStyle.Render(c.Title))
		out.WriteString("\n")
	}
	axis := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	for i, row := range grid {
		value := hi - float64(i)/float64(c.Height-1)*(hi-lo)
		out.WriteString(axis.Render(chartValue(value)))
		out.WriteString(" │ ")
		out.WriteString(string(row))
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └")
	out.WriteString(strings.Repeat("─", plotWidth+1))
	return out.String()
}

func bounds(points []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	if hi == lo {
		hi, lo = hi+1, lo-1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// line joins two cells with Bresenham's algorithm, leaving set cells alone
func line(grid [][]rune, x0, y0, x1, y1 int, ch rune) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if y0 >= 0 && y0 < len(grid) && x0 >= 0 && x0 < len(grid[y0]) && grid[y0][x0] == ' ' {
			grid[y0][x0] = ch
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func chartValue(v float64) string {
	switch {
	case math.Abs(v) >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case math.Abs(v) >= 1e3:
		return fmt.Sprintf("$%.0fK", v/1e3)
	}
	return fmt.Sprintf("$%.0f", v)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
