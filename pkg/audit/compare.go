package audit

// Diff is the result of comparing two audits.
type Diff struct {
	New        []*Finding // present in the newer audit only
	Resolved   []*Finding // present in the older audit only
	Persistent []*Finding // present in both (matched by fingerprint)
}

// Compare classifies every finding of two audits as new, resolved, or
// persistent. Matching uses the content fingerprint, not the finding id:
// two runs must be matched by content to detect genuinely new or fixed
// issues. Mutates the Status field on the findings of both audits as a
// side effect.
func Compare(older, newer *Audit) Diff {
	oldMap := fingerprintMap(older)
	newMap := fingerprintMap(newer)

	var diff Diff
	for _, f := range newer.Findings {
		if _, ok := oldMap[f.Fingerprint()]; ok {
			f.Status = StatusUnchanged
			diff.Persistent = append(diff.Persistent, f)
		} else {
			f.Status = StatusNew
			diff.New = append(diff.New, f)
		}
	}
	for _, f := range older.Findings {
		if _, ok := newMap[f.Fingerprint()]; !ok {
			f.Status = StatusResolved
			diff.Resolved = append(diff.Resolved, f)
		}
	}
	return diff
}

func fingerprintMap(a *Audit) map[string]*Finding {
	m := make(map[string]*Finding, len(a.Findings))
	for _, f := range a.Findings {
		m[f.Fingerprint()] = f
	}
	return m
}
