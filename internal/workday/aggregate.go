package workday

import (
	"sort"
	"time"
)

// Bucket is the worked total of one month, or one day in weekly views.
type Bucket struct {
	Name    string `json:"name"`
	Date    string `json:"date,omitempty"`
	Seconds int64  `json:"seconds"`
	Clock   string `json:"clock"`
}

// Year buckets the closed worked time of entries dated in year into the
// twelve calendar months, January first. Months without entries stay at zero.
func Year(entries []Entry, year int) []Bucket {
	buckets := make([]Bucket, 12)
	for i := range buckets {
		buckets[i].Name = time.Month(i + 1).String()
	}
	for _, e := range entries {
		day, err := e.Day()
		if err != nil || day.Year() != year {
			continue
		}
		buckets[day.Month()-1].Seconds += WorkedSeconds(e)
	}
	return withClock(buckets)
}

// Week buckets entries into the ISO week containing day, Monday first.
func Week(entries []Entry, day time.Time) []Bucket {
	monday := WeekStart(day)
	buckets := make([]Bucket, 7)
	index := make(map[string]int, 7)
	for i := range buckets {
		d := monday.AddDate(0, 0, i)
		buckets[i].Name = d.Weekday().String()
		buckets[i].Date = d.Format(DateLayout)
		index[buckets[i].Date] = i
	}
	for _, e := range entries {
		if i, ok := index[e.Date]; ok {
			buckets[i].Seconds += WorkedSeconds(e)
		}
	}
	return withClock(buckets)
}

// WeekStart returns the Monday of the ISO week containing day, at midnight.
func WeekStart(day time.Time) time.Time {
	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}

func Total(buckets []Bucket) Bucket {
	var out Bucket
	out.Name = "Total"
	for _, b := range buckets {
		out.Seconds += b.Seconds
	}
	out.Clock = FormatSeconds(out.Seconds)
	return out
}

type EmployeeTotal struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Days         int    `json:"days"`
	Seconds      int64  `json:"seconds"`
	Clock        string `json:"clock"`
}

// ByEmployee sums closed worked time per employee, ordered by name. Days
// counts the finished entries.
func ByEmployee(entries []Entry) []EmployeeTotal {
	byID := make(map[string]*EmployeeTotal)
	for _, e := range entries {
		t, ok := byID[e.EmployeeID]
		if !ok {
			t = &EmployeeTotal{EmployeeID: e.EmployeeID, EmployeeName: e.EmployeeName}
			byID[e.EmployeeID] = t
		}
		if _, closed := Worked(e); closed {
			t.Days++
		}
		t.Seconds += WorkedSeconds(e)
	}

	out := make([]EmployeeTotal, 0, len(byID))
	for _, t := range byID {
		t.Clock = FormatSeconds(t.Seconds)
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeName != out[j].EmployeeName {
			return out[i].EmployeeName < out[j].EmployeeName
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

func withClock(buckets []Bucket) []Bucket {
	for i := range buckets {
		buckets[i].Clock = FormatSeconds(buckets[i].Seconds)
	}
	return buckets
}
