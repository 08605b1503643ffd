package fflogs

import (
	"combatlog_check/events"
)

type graphQLError struct {
	Message string `json:"message"`
}

type reportFightResponse struct {
	Data struct {
		ReportData struct {
			Report *reportFight `json:"report"`
		} `json:"reportData"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type reportFight struct {
	Fights []struct {
		ID        int   `json:"id"`
		StartTime int64 `json:"startTime"`
		EndTime   int64 `json:"endTime"`
	} `json:"fights"`
	MasterData struct {
		Actors []reportActor `json:"actors"`
	} `json:"masterData"`
}

type reportActor struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Server  string `json:"server"`
	SubType string `json:"subType"` // class name
}

type reportEventsResponse struct {
	Data struct {
		ReportData struct {
			Report *struct {
				Events reportEvents `json:"events"`
			} `json:"report"`
		} `json:"reportData"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type reportEvents struct {
	Data              []events.Event `json:"data"`
	NextPageTimestamp int64          `json:"nextPageTimestamp"`
}

type tmplReportFightData struct {
	Code    string
	FightID int
}

type tmplReportEventsData struct {
	Code      string
	FightID   int
	SourceID  int
	StartTime int64
	EndTime   int64
	Limit     int
}
