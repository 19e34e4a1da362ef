package dag

import (
	"fmt"
	"strings"
	"time"
)

// TimeoutError reports that a walk waited longer than its configured timeout
// without any node becoming ready. Residual unprocessed nodes indicate
// either a cycle in the graph or a caller that never reported completion for
// a dispatched node.
type TimeoutError struct {
	Wait      time.Duration
	Remaining []string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("walk timed out after %s waiting for a ready node; %d unprocessed: %s",
		e.Wait, len(e.Remaining), strings.Join(e.Remaining, ", "))
}
