package cases

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/truth"
)

// Profile summarizes the hidden shape of a case: its meta facts and the
// offender's traits. It is a debugging view and reveals the answer.
type Profile struct {
	CaseID   string            `json:"case_id"`
	Seed     int64             `json:"seed"`
	Meta     map[string]string `json:"meta"`
	Offender string            `json:"offender,omitempty"`
	Traits   map[string]string `json:"traits,omitempty"`
}

// BuildProfile reads the profile of a generated case.
func BuildProfile(st *truth.State) Profile {
	p := Profile{
		CaseID: st.CaseID(),
		Seed:   st.Seed(),
		Meta:   make(map[string]string),
	}
	for _, k := range st.MetaKeys() {
		v, _ := st.Meta(k)
		p.Meta[k] = v
	}
	if offenders := st.PeopleWithRole(domain.RoleOffender); len(offenders) > 0 {
		p.Offender = offenders[0].Name
		p.Traits = offenders[0].Traits
	}
	return p
}

// Text renders the profile as plain text with sorted keys.
func (p Profile) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Case: %s (seed %d)\n", p.CaseID, p.Seed)
	if len(p.Meta) > 0 {
		b.WriteString("Case meta:\n")
		writeSorted(&b, p.Meta)
	}
	if p.Offender != "" {
		fmt.Fprintf(&b, "Offender: %s\n", p.Offender)
		b.WriteString("Offender traits:\n")
		writeSorted(&b, p.Traits)
	}
	return b.String()
}

func writeSorted(b *strings.Builder, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %s\n", k, m[k])
	}
}
