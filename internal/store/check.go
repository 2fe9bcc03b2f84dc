package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nibzard/nexus-go/internal/kv"
)

// Problem is a defect found in a stored record.
type Problem struct {
	Key string
	Err error
}

func (p Problem) Error() string {
	return fmt.Sprintf("%s: %s", p.Key, p.Err)
}

// RecordStatus summarizes one record for reporting.
type RecordStatus struct {
	Key     string
	Present bool
	Bytes   int
}

// Check validates every stored record. Absent records are not problems.
func (s *Store) Check(ctx context.Context) ([]RecordStatus, []Problem) {
	var statuses []RecordStatus
	var problems []Problem
	for _, key := range []string{KeyTasks, KeyCategories, KeyDarkMode} {
		raw, err := s.backend.Get(ctx, key)
		if errors.Is(err, kv.ErrNotFound) {
			statuses = append(statuses, RecordStatus{Key: key})
			continue
		}
		if err != nil {
			statuses = append(statuses, RecordStatus{Key: key})
			problems = append(problems, Problem{Key: key, Err: err})
			continue
		}
		statuses = append(statuses, RecordStatus{Key: key, Present: true, Bytes: len(raw)})

		if key == KeyDarkMode {
			if raw != "true" && raw != "false" {
				problems = append(problems, Problem{Key: key, Err: fmt.Errorf("value %q is not true or false", raw)})
			}
			continue
		}
		for _, err := range validateRecord(key, raw) {
			problems = append(problems, Problem{Key: key, Err: err})
		}
	}
	return statuses, problems
}
