package store

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
	CategorySocial   Category = "social"
)

type Status string

const (
	StatusUpcoming   Status = "upcoming"
	StatusCurrent    Status = "current"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// TimedRoutineItem is a scheduled item with a time slot and a duration in minutes.
type TimedRoutineItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Time        string     `json:"time,omitempty"`
	Duration    int        `json:"duration"`
	Icon        string     `json:"icon,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Category    Category   `json:"category,omitempty"`
	Status      Status     `json:"status,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Color       string     `json:"color,omitempty"`
	IsActive    bool       `json:"isActive"`
	IsRoutine   bool       `json:"isRoutine,omitempty"`
}

func (i TimedRoutineItem) IsCompleted() bool { return i.Completed }

// CompletedTask is a TimedRoutineItem moved to the completed history.
type CompletedTask struct {
	TimedRoutineItem
}

// FocusStats are running totals updated on every completion. Times are minutes.
type FocusStats struct {
	TotalFocusTime    int     `json:"totalFocusTime"`
	CompletedSessions int     `json:"completedSessions"`
	Streak            int     `json:"streak"`
	LastSessionDate   string  `json:"lastSessionDate,omitempty"`
	WeeklyGoal        int     `json:"weeklyGoal"`
	WeeklyProgress    float64 `json:"weeklyProgress"`
	MonthlyGoal       int     `json:"monthlyGoal"`
	MonthlyProgress   float64 `json:"monthlyProgress"`
}

// DefaultFocusStats returns the stats used when nothing is stored.
func DefaultFocusStats() FocusStats {
	return FocusStats{WeeklyGoal: 300, MonthlyGoal: 1200}
}

// WeeklyRatio is progress towards the weekly goal, 0 when no goal is set.
func (s FocusStats) WeeklyRatio() float64 {
	if s.WeeklyGoal <= 0 {
		return 0
	}
	return s.WeeklyProgress / float64(s.WeeklyGoal)
}

// MonthlyRatio is progress towards the monthly goal.
func (s FocusStats) MonthlyRatio() float64 {
	if s.MonthlyGoal <= 0 {
		return 0
	}
	return s.MonthlyProgress / float64(s.MonthlyGoal)
}

type MovementBreak struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Duration  int       `json:"duration"`
}

// AppData is everything DataManager owns, loaded in one call.
type AppData struct {
	RoutineItems   []TimedRoutineItem
	CompletedTasks []CompletedTask
	FocusStats     FocusStats
	WaterIntake    int
	MovementBreaks []MovementBreak
}

// TimeBlock is one slot of a day's routine.
type TimeBlock struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Color       string     `json:"color,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Completed   bool       `json:"completed,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (b TimeBlock) IsCompleted() bool { return b.Completed }

type RoutineTemplate struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Blocks    []TimeBlock `json:"blocks"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type Reward struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

type Streak struct {
	CurrentStreak     int    `json:"currentStreak"`
	LongestStreak     int    `json:"longestStreak"`
	LastCompletedDate string `json:"lastCompletedDate"`
}

type FocusSession struct {
	ID          string     `json:"id"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Duration    int        `json:"duration"` // planned minutes
	TaskTitle   string     `json:"taskTitle"`
	SessionType string     `json:"sessionType"`
	Completed   bool       `json:"completed"`
	Notes       string     `json:"notes,omitempty"`
}

// SessionStats summarises the focus session log. Times are minutes.
type SessionStats struct {
	TotalSessions        int
	TotalFocusTime       int
	AverageSessionLength int
	CompletionRate       float64 // percent
}

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

type Habit struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Icon              string    `json:"icon"`
	Streak            int       `json:"streak"`
	Frequency         Frequency `json:"frequency"`
	Goal              int       `json:"goal"`
	Completed         bool      `json:"completed"`
	StackedOn         string    `json:"stackedOn,omitempty"`
	Progress          int       `json:"progress"`
	LastCompletedDate string    `json:"lastCompletedDate,omitempty"`
	ProgressDate      string    `json:"progressDate,omitempty"`
}

func (h Habit) IsCompleted() bool { return h.Completed }

// HabitSummary is the header line of the habits view.
type HabitSummary struct {
	CompletedToday int
	Total          int
	LongestStreak  int
	LongestHabit   string
}

type UserPreferences struct {
	Theme                  string `json:"theme" validate:"oneof=system light dark"`
	Notifications          bool   `json:"notifications"`
	SoundEnabled           bool   `json:"soundEnabled"`
	HapticEnabled          bool   `json:"hapticEnabled"`
	FocusDuration          int    `json:"focusDuration" validate:"gt=0,lte=240"`
	BreakDuration          int    `json:"breakDuration" validate:"gt=0,lte=120"`
	LongBreakDuration      int    `json:"longBreakDuration" validate:"gt=0,lte=120"`
	SessionsUntilLongBreak int    `json:"sessionsUntilLongBreak" validate:"gt=0,lte=12"`
	UserName               string `json:"userName,omitempty"`
}

func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Theme:                  "system",
		Notifications:          true,
		SoundEnabled:           true,
		HapticEnabled:          true,
		FocusDuration:          25,
		BreakDuration:          5,
		LongBreakDuration:      15,
		SessionsUntilLongBreak: 4,
	}
}

type AccessibilitySettings struct {
	HighContrast   bool    `json:"highContrast"`
	TextSize       float64 `json:"textSize" validate:"textsize"`
	ColorBlindMode string  `json:"colorBlindMode" validate:"oneof=none protanopia deuteranopia tritanopia"`
}

func DefaultAccessibility() AccessibilitySettings {
	return AccessibilitySettings{TextSize: 1, ColorBlindMode: "none"}
}

// TextSizes maps labels to the scale factors the settings accept.
var TextSizes = []struct {
	Label string
	Value float64
}{
	{"Small", 0.8},
	{"Medium", 1},
	{"Large", 1.2},
	{"Extra Large", 1.4},
}

var ColorBlindModes = []string{"none", "protanopia", "deuteranopia", "tritanopia"}

type BlockedApp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PackageName string `json:"packageName"`
}

type BlockedWebsite struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

type ShieldNotificationSettings struct {
	AllowImportant bool `json:"allowImportant"`
	AllowCalls     bool `json:"allowCalls"`
	AllowMessages  bool `json:"allowMessages"`
}

type ShieldSettings struct {
	IsEnabled            bool                       `json:"isEnabled"`
	BlockedApps          []BlockedApp               `json:"blockedApps"`
	BlockedWebsites      []BlockedWebsite           `json:"blockedWebsites"`
	NotificationSettings ShieldNotificationSettings `json:"notificationSettings"`
}

func DefaultShieldSettings() ShieldSettings {
	return ShieldSettings{
		BlockedApps:     []BlockedApp{},
		BlockedWebsites: []BlockedWebsite{},
		NotificationSettings: ShieldNotificationSettings{
			AllowImportant: true,
			AllowCalls:     true,
			AllowMessages:  true,
		},
	}
}
