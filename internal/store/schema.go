package store

import (
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "avatar", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	// UserStatsColumns holds the columns for the "user_stats" table.
	UserStatsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "xp", Type: field.TypeInt, Default: 0},
		{Name: "streak", Type: field.TypeInt, Default: 0},
		{Name: "hearts", Type: field.TypeInt, Default: MaxHearts},
		{Name: "perfect_scores", Type: field.TypeInt, Default: 0},
		{Name: "version", Type: field.TypeInt64, Default: 1},
		{Name: "last_active_on", Type: field.TypeString, Default: ""},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// UserStatsTable holds the schema information for the "user_stats" table.
	UserStatsTable = &schema.Table{
		Name:       "user_stats",
		Columns:    UserStatsColumns,
		PrimaryKey: []*schema.Column{UserStatsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "user_stats_users_stats",
				Columns:    []*schema.Column{UserStatsColumns[0]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// CompletedLessonsColumns holds the columns for the "completed_lessons" table.
	CompletedLessonsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "lesson_id", Type: field.TypeString},
		{Name: "completed_at", Type: field.TypeTime},
	}
	// CompletedLessonsTable holds the schema information for the "completed_lessons" table.
	CompletedLessonsTable = &schema.Table{
		Name:       "completed_lessons",
		Columns:    CompletedLessonsColumns,
		PrimaryKey: []*schema.Column{CompletedLessonsColumns[0], CompletedLessonsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "completed_lessons_users_completed",
				Columns:    []*schema.Column{CompletedLessonsColumns[0]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// AnswerHistoryColumns holds the columns for the "answer_history" table.
	AnswerHistoryColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "question_type", Type: field.TypeString, Default: ""},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// AnswerHistoryTable holds the schema information for the "answer_history" table.
	AnswerHistoryTable = &schema.Table{
		Name:       "answer_history",
		Columns:    AnswerHistoryColumns,
		PrimaryKey: []*schema.Column{AnswerHistoryColumns[0], AnswerHistoryColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "answer_history_users_answers",
				Columns:    []*schema.Column{AnswerHistoryColumns[0]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// QuestionTypesColumns holds the columns for the "question_types" table.
	QuestionTypesColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "question_type", Type: field.TypeString},
	}
	// QuestionTypesTable holds the schema information for the "question_types" table.
	QuestionTypesTable = &schema.Table{
		Name:       "question_types",
		Columns:    QuestionTypesColumns,
		PrimaryKey: []*schema.Column{QuestionTypesColumns[0], QuestionTypesColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "question_types_users_types",
				Columns:    []*schema.Column{QuestionTypesColumns[0]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// DailyQuestsColumns holds the columns for the "daily_quests" table.
	DailyQuestsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "quest_id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "type", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString},
		{Name: "target", Type: field.TypeInt},
		{Name: "progress", Type: field.TypeInt, Default: 0},
		{Name: "reward", Type: field.TypeInt},
		{Name: "completed", Type: field.TypeBool, Default: false},
		{Name: "day", Type: field.TypeString},
	}
	// DailyQuestsTable holds the schema information for the "daily_quests" table.
	DailyQuestsTable = &schema.Table{
		Name:       "daily_quests",
		Columns:    DailyQuestsColumns,
		PrimaryKey: []*schema.Column{DailyQuestsColumns[0], DailyQuestsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "daily_quests_users_quests",
				Columns:    []*schema.Column{DailyQuestsColumns[0]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// UnlockedAchievementsColumns holds the columns for the "unlocked_achievements" table.
	UnlockedAchievementsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "achievement_id", Type: field.TypeString},
		{Name: "unlocked_at", Type: field.TypeTime},
	}
	// UnlockedAchievementsTable holds the schema information for the "unlocked_achievements" table.
	UnlockedAchievementsTable = &schema.Table{
		Name:       "unlocked_achievements",
		Columns:    UnlockedAchievementsColumns,
		PrimaryKey: []*schema.Column{UnlockedAchievementsColumns[0], UnlockedAchievementsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "unlocked_achievements_users_unlocked",
				Columns:    []*schema.Column{UnlockedAchievementsColumns[0]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// ActivityLogColumns holds the columns for the "activity_log" table.
	ActivityLogColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "ref", Type: field.TypeString, Default: ""},
		{Name: "xp", Type: field.TypeInt, Default: 0},
		{Name: "day", Type: field.TypeString},
		{Name: "timestamp", Type: field.TypeTime},
	}
	// ActivityLogTable holds the schema information for the "activity_log" table.
	ActivityLogTable = &schema.Table{
		Name:       "activity_log",
		Columns:    ActivityLogColumns,
		PrimaryKey: []*schema.Column{ActivityLogColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "activity_log_users_activity",
				Columns:    []*schema.Column{ActivityLogColumns[2]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "activity_user_day",
				Columns: []*schema.Column{ActivityLogColumns[2], ActivityLogColumns[6]},
			},
		},
	}

	// CoursesColumns holds the columns for the "courses" table.
	CoursesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "lesson_count", Type: field.TypeInt, Default: 0},
		{Name: "document", Type: field.TypeString, Size: 2147483647},
		{Name: "version", Type: field.TypeInt64, Default: 1},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// CoursesTable holds the schema information for the "courses" table.
	CoursesTable = &schema.Table{
		Name:       "courses",
		Columns:    CoursesColumns,
		PrimaryKey: []*schema.Column{CoursesColumns[0]},
	}

	// LlmEventsColumns holds the columns for the "llm_events" table.
	LlmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "user_id", Type: field.TypeString, Default: ""},
	}
	// LlmEventsTable holds the schema information for the "llm_events" table.
	LlmEventsTable = &schema.Table{
		Name:       "llm_events",
		Columns:    LlmEventsColumns,
		PrimaryKey: []*schema.Column{LlmEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llm_events_timestamp",
				Columns: []*schema.Column{LlmEventsColumns[2]},
			},
			{
				Name:    "llm_events_user_id",
				Columns: []*schema.Column{LlmEventsColumns[13]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
		UserStatsTable,
		CompletedLessonsTable,
		AnswerHistoryTable,
		QuestionTypesTable,
		DailyQuestsTable,
		UnlockedAchievementsTable,
		ActivityLogTable,
		CoursesTable,
		LlmEventsTable,
	}
)

func init() {
	UserStatsTable.ForeignKeys[0].RefTable = UsersTable
	CompletedLessonsTable.ForeignKeys[0].RefTable = UsersTable
	AnswerHistoryTable.ForeignKeys[0].RefTable = UsersTable
	QuestionTypesTable.ForeignKeys[0].RefTable = UsersTable
	DailyQuestsTable.ForeignKeys[0].RefTable = UsersTable
	UnlockedAchievementsTable.ForeignKeys[0].RefTable = UsersTable
	ActivityLogTable.ForeignKeys[0].RefTable = UsersTable
}

// sqlb builds every statement the repos run.
var sqlb = entsql.Dialect(dialect.SQLite)
