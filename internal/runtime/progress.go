package runtime

import (
	"math"

	"github.com/verdanta/greenflow/pkg/domain"
)

// GraphProgress projects the session onto a progress percent for the active
// graph: visual questions visited so far over total visual questions,
// rounded to the nearest integer. Non-visual nodes never count, so the
// figure matches exactly what the user sees as pages.
func GraphProgress(g *domain.Graph, st *domain.TraversalState) int {
	if st.Status == domain.StatusCompleted {
		return 100
	}
	total := g.VisualCount()
	if total == 0 {
		return 0
	}
	visited := st.VisitedIn(g.Name)
	pct := int(math.Round(float64(visited) / float64(total) * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}
