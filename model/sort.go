package model

import "fmt"

type SortKey string

const (
	SortUpdated  SortKey = "updated"
	SortCreated  SortKey = "created"
	SortPushed   SortKey = "pushed"
	SortFullName SortKey = "full_name"

	DefaultSortKey = SortUpdated
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// SortKeys lists recognized keys in the order the sort control displays them
var SortKeys = []SortKey{SortUpdated, SortCreated, SortPushed, SortFullName}

// Direction is ascending only for the alphabetical key, every date based key
// is requested most recent first
func (k SortKey) Direction() SortDirection {
	if k == SortFullName {
		return SortAscending
	}

	return SortDescending
}

// Label is the text shown for the key in the sort control
func (k SortKey) Label() string {
	switch k {
	case SortUpdated:
		return "Last updated"
	case SortCreated:
		return "Recently created"
	case SortPushed:
		return "Last pushed"
	case SortFullName:
		return "Name"
	default:
		return string(k)
	}
}

func ParseSortKey(value string) (SortKey, error) {
	for _, k := range SortKeys {
		if string(k) == value {
			return k, nil
		}
	}

	return "", fmt.Errorf("unknown sort key %q", value)
}
