package tools

var searchMeetingsDef = Definition{
	Name:        "search_meetings",
	Description: "Search meetings by text query, date range and participant. Without dates the search covers the recent lookback window.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Text to search for in titles, summaries and transcripts",
			},
			"from_date": map[string]any{
				"type":        "string",
				"description": "Start date: relative like 3d, 24h, 1w or absolute YYYY-MM-DD",
			},
			"to_date": map[string]any{
				"type":        "string",
				"description": "End date: relative like 1d or absolute YYYY-MM-DD",
			},
			"participant": map[string]any{
				"type":        "string",
				"description": "Participant name or email to match",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of results",
			},
		},
	},
}

var getRecentMeetingsDef = Definition{
	Name:        "get_recent_meetings",
	Description: "Get the most recent meetings, newest first.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"count": map[string]any{
				"type":        "integer",
				"description": "Number of meetings to return (1-100, default 10)",
				"minimum":     1,
				"maximum":     100,
			},
		},
	},
}

var listMeetingsDef = Definition{
	Name:        "list_meetings",
	Description: "List meetings in a date range. Without dates the listing covers the recent lookback window.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"from_date": map[string]any{
				"type":        "string",
				"description": "Start date: relative like 3d, 24h, 1w or absolute YYYY-MM-DD",
			},
			"to_date": map[string]any{
				"type":        "string",
				"description": "End date: relative like 1d or absolute YYYY-MM-DD",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of results",
			},
		},
	},
}

var getMeetingDef = Definition{
	Name:        "get_meeting",
	Description: "Get full details of one meeting by its id.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"meeting_id": map[string]any{
				"type":        "string",
				"description": "Meeting id",
			},
		},
		"required": []string{"meeting_id"},
	},
}

var getTranscriptDef = Definition{
	Name:        "get_transcript",
	Description: "Get the full transcript of one meeting.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"meeting_id": map[string]any{
				"type":        "string",
				"description": "Meeting id",
			},
			"include_speakers": map[string]any{
				"type":        "boolean",
				"description": "Include speaker names in segments (default true)",
			},
			"include_timestamps": map[string]any{
				"type":        "boolean",
				"description": "Include segment timestamps (default false)",
			},
		},
		"required": []string{"meeting_id"},
	},
}

var getMeetingNotesDef = Definition{
	Name:        "get_meeting_notes",
	Description: "Get the structured notes and summary of one meeting.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"meeting_id": map[string]any{
				"type":        "string",
				"description": "Meeting id",
			},
		},
		"required": []string{"meeting_id"},
	},
}

var listParticipantsDef = Definition{
	Name:        "list_participants",
	Description: "List meeting participants with their meeting counts.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"from_date": map[string]any{
				"type":        "string",
				"description": "Start date: relative like 3d, 24h, 1w or absolute YYYY-MM-DD",
			},
			"to_date": map[string]any{
				"type":        "string",
				"description": "End date: relative like 1d or absolute YYYY-MM-DD",
			},
			"min_meetings": map[string]any{
				"type":        "integer",
				"description": "Only include participants with at least this many meetings (default 1)",
			},
		},
	},
}

var getStatisticsDef = Definition{
	Name:        "get_statistics",
	Description: "Compute statistics over meetings: summary, frequency, duration, participants or patterns.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stat_type": map[string]any{
				"type":        "string",
				"description": "Kind of statistics to compute",
				"enum":        []string{"summary", "frequency", "duration", "participants", "patterns"},
			},
			"from_date": map[string]any{
				"type":        "string",
				"description": "Start date: relative like 3d, 24h, 1w or absolute YYYY-MM-DD",
			},
			"to_date": map[string]any{
				"type":        "string",
				"description": "End date: relative like 1d or absolute YYYY-MM-DD",
			},
		},
		"required": []string{"stat_type"},
	},
}

var exportMeetingDef = Definition{
	Name:        "export_meeting",
	Description: "Export one meeting as a markdown document.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"meeting_id": map[string]any{
				"type":        "string",
				"description": "Meeting id",
			},
			"format": map[string]any{
				"type":        "string",
				"description": "Export format (default markdown)",
				"enum":        []string{"markdown"},
			},
			"include_transcript": map[string]any{
				"type":        "boolean",
				"description": "Include the transcript section (default true)",
			},
			"include_metadata": map[string]any{
				"type":        "boolean",
				"description": "Include the metadata section (default true)",
			},
		},
		"required": []string{"meeting_id"},
	},
}

var analyzePatternsDef = Definition{
	Name:        "analyze_patterns",
	Description: "Analyze meeting patterns: time of day, frequency, participant collaboration or duration trends.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pattern_type": map[string]any{
				"type":        "string",
				"description": "Kind of pattern analysis (default time)",
				"enum":        []string{"time", "frequency", "participants", "duration"},
			},
			"from_date": map[string]any{
				"type":        "string",
				"description": "Start date: relative like 3d, 24h, 1w or absolute YYYY-MM-DD",
			},
			"to_date": map[string]any{
				"type":        "string",
				"description": "End date: relative like 1d or absolute YYYY-MM-DD",
			},
		},
	},
}

var refreshCacheDef = Definition{
	Name:        "refresh_cache",
	Description: "Reload the meeting cache from disk and report what changed.",
	InputSchema: map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	},
}
