package advice

import (
	"github.com/actuallystonmai/health-advisor/internal/domain"
	"github.com/actuallystonmai/health-advisor/internal/scoring"
)

// Quick returns the one-line advice for a Bristol type.
func Quick(t domain.BristolType) domain.QuickAdvice {
	tpl := templateFor(t)
	return domain.QuickAdvice{
		QuickTip: tpl.quickTip,
		Urgency:  scoring.AssessUrgency(t, nil),
		Action:   tpl.action,
	}
}
