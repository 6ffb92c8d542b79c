package tictactoe

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
)

// Render returns a colored console view of the board: X green, O red,
// open cells showing their action index dimmed.
func (s *State) Render() string {
	width := len(fmt.Sprint(len(s.cells) - 1))
	pad := strings.Repeat(" ", width-1)

	var b strings.Builder
	for row := 0; row < s.size; row++ {
		cells := make([]string, s.size)
		for col := 0; col < s.size; col++ {
			i := row*s.size + col
			switch s.cells[i] {
			case X:
				cells[col] = pad + aurora.Green("X").Bold().String()
			case O:
				cells[col] = pad + aurora.Red("O").Bold().String()
			default:
				cells[col] = aurora.Gray(11, fmt.Sprintf("%*d", width, i)).String()
			}
		}
		b.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if row < s.size-1 {
			segment := strings.Repeat("-", width+2)
			b.WriteString(strings.Repeat(segment+"+", s.size-1) + segment + "\n")
		}
	}
	return b.String()
}
