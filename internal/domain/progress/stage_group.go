package progress

// StageGroup is a coarse display bucket derived from the stage. Groups are
// never persisted; they exist only for the filter UI.
type StageGroup string

const (
	GroupUnenrolled StageGroup = "unenrolled" // word mode only: no progress record
	GroupNotYet     StageGroup = "not_yet"    // stages 0-1
	GroupALittle    StageGroup = "a_little"   // stage 2
	GroupMostly     StageGroup = "mostly"     // stage 3
	GroupStable     StageGroup = "stable"     // stage 4
	GroupQuite      StageGroup = "quite"      // stage 5
	GroupMastered   StageGroup = "mastered"   // stage 6
)

// StageGroupOf maps a stage to its review bucket.
func StageGroupOf(stage int) StageGroup {
	switch s := ClampStage(stage); {
	case s <= 1:
		return GroupNotYet
	case s == 2:
		return GroupALittle
	case s == 3:
		return GroupMostly
	case s == 4:
		return GroupStable
	case s == 5:
		return GroupQuite
	default:
		return GroupMastered
	}
}

// ReviewGroups lists the six buckets selectable in review mode, where every
// queued word has a progress record.
func ReviewGroups() []StageGroup {
	return []StageGroup{
		GroupNotYet, GroupALittle, GroupMostly,
		GroupStable, GroupQuite, GroupMastered,
	}
}

// WordGroups lists the buckets selectable in word mode, which adds the
// unenrolled pseudo-bucket.
func WordGroups() []StageGroup {
	return append([]StageGroup{GroupUnenrolled}, ReviewGroups()...)
}

// Label returns the kid-facing kana label used by the UI.
func (g StageGroup) Label() string {
	switch g {
	case GroupUnenrolled:
		return "みとうろく"
	case GroupNotYet:
		return "まだ"
	case GroupALittle:
		return "すこし"
	case GroupMostly:
		return "だいたい"
	case GroupStable:
		return "あんてい"
	case GroupQuite:
		return "かなり"
	case GroupMastered:
		return "ていちゃく"
	default:
		return string(g)
	}
}
