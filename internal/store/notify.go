package store

// Bucket names a notification group.
type Bucket string

const (
	BucketDueToday  Bucket = "due_today"
	BucketUpcoming  Bucket = "upcoming"
	BucketOverdue   Bucket = "overdue"
	BucketCompleted Bucket = "completed"
	BucketInvalid   Bucket = "invalid_date"
)

// Notice is a task together with the category it lives in.
type Notice struct {
	Category string
	Task     Task
}

// Notifications buckets every task of a repository by due date.
type Notifications struct {
	DueToday  []Notice
	Upcoming  []Notice
	Overdue   []Notice
	Completed []Notice
	// Invalid holds tasks whose stored date cannot be read.
	Invalid []Notice
	total   int
}

// Section is one bucket in display order.
type Section struct {
	Bucket  Bucket
	Notices []Notice
}

// Classify assigns each task to exactly one bucket. A completed task is
// always completed regardless of its date.
func Classify(r *Repository) Notifications {
	var n Notifications
	for _, c := range r.categories {
		for _, t := range c.Tasks {
			n.total++
			notice := Notice{Category: c.Name, Task: t}
			if t.Completed {
				n.Completed = append(n.Completed, notice)
				continue
			}
			rel, err := CompareToToday(t.Date)
			if err != nil {
				n.Invalid = append(n.Invalid, notice)
				continue
			}
			switch rel {
			case Today:
				n.DueToday = append(n.DueToday, notice)
			case Future:
				n.Upcoming = append(n.Upcoming, notice)
			default:
				n.Overdue = append(n.Overdue, notice)
			}
		}
	}
	return n
}

// Empty reports that the repository held no tasks at all.
func (n Notifications) Empty() bool {
	return n.total == 0
}

// Sections returns due today, upcoming, overdue, completed, then invalid.
// Empty buckets are skipped.
func (n Notifications) Sections() []Section {
	all := []Section{
		{Bucket: BucketDueToday, Notices: n.DueToday},
		{Bucket: BucketUpcoming, Notices: n.Upcoming},
		{Bucket: BucketOverdue, Notices: n.Overdue},
		{Bucket: BucketCompleted, Notices: n.Completed},
		{Bucket: BucketInvalid, Notices: n.Invalid},
	}
	out := make([]Section, 0, len(all))
	for _, s := range all {
		if len(s.Notices) > 0 {
			out = append(out, s)
		}
	}
	return out
}
