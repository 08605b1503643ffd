// Package fflogs fetches fights and their events from the log service's
// GraphQL API.
package fflogs

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"combatlog_check/parser"
)

const eventsPageLimit = 10000

// GetFight resolves sourceName to an actor of the report and downloads all
// of that actor's events in the fight, following pages until the service
// reports no next page.
func (c *Client) GetFight(ctx context.Context, code string, fightID int, sourceName string) (*parser.Fight, error) {
	rf, err := c.getReportFight(ctx, code, fightID)
	if err != nil {
		return nil, err
	}

	var fight *parser.Fight
	for _, f := range rf.Fights {
		if f.ID == fightID {
			fight = &parser.Fight{
				ReportCode: code,
				FightID:    fightID,
				StartTime:  f.StartTime,
				EndTime:    f.EndTime,
			}
			break
		}
	}
	if fight == nil {
		return nil, errors.Wrapf(ErrNotFound, "fight %s#%d", code, fightID)
	}

	found := false
	for _, actor := range rf.MasterData.Actors {
		if strings.EqualFold(actor.Name, sourceName) {
			fight.SourceID = actor.ID
			fight.Class = actor.SubType
			found = true
			break
		}
	}
	if !found {
		return nil, errors.Wrapf(ErrNotFound, "player %q in %s", sourceName, code)
	}

	err = c.getEvents(ctx, fight)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("report", code).
		Int("fight", fightID).
		Int("source", fight.SourceID).
		Int("events", len(fight.Events)).
		Msg("fight downloaded")

	return fight, nil
}

func (c *Client) getReportFight(ctx context.Context, code string, fightID int) (*reportFight, error) {
	key := reportFightKey(code, fightID)

	var cached reportFight
	if c.loadCache(key, &cached) {
		return &cached, nil
	}

	var resp reportFightResponse
	err := c.callGraphQL(
		ctx,
		tmplReportFight,
		tmplReportFightData{Code: code, FightID: fightID},
		&resp,
	)
	if err != nil {
		return nil, err
	}
	if err = checkGraphQLErrors(resp.Errors); err != nil {
		return nil, err
	}
	if resp.Data.ReportData.Report == nil {
		return nil, errors.Wrapf(ErrNotFound, "report %s", code)
	}

	c.saveCache(key, resp.Data.ReportData.Report)

	return resp.Data.ReportData.Report, nil
}

func (c *Client) getEvents(ctx context.Context, fight *parser.Fight) error {
	d := tmplReportEventsData{
		Code:      fight.ReportCode,
		FightID:   fight.FightID,
		SourceID:  fight.SourceID,
		StartTime: fight.StartTime,
		EndTime:   fight.EndTime,
		Limit:     eventsPageLimit,
	}

	for {
		page, err := c.getEventsPage(ctx, d)
		if err != nil {
			return err
		}

		fight.Events = append(fight.Events, page.Data...)

		if page.NextPageTimestamp == 0 || page.NextPageTimestamp <= d.StartTime {
			return nil
		}
		d.StartTime = page.NextPageTimestamp
	}
}

func (c *Client) getEventsPage(ctx context.Context, d tmplReportEventsData) (*reportEvents, error) {
	key := reportEventsKey(d)

	var cached reportEvents
	if c.loadCache(key, &cached) {
		return &cached, nil
	}

	var resp reportEventsResponse
	err := c.callGraphQL(ctx, tmplReportEvents, d, &resp)
	if err != nil {
		return nil, err
	}
	if err = checkGraphQLErrors(resp.Errors); err != nil {
		return nil, err
	}
	if resp.Data.ReportData.Report == nil {
		return nil, errors.Wrapf(ErrNotFound, "report %s", d.Code)
	}

	page := &resp.Data.ReportData.Report.Events
	c.saveCache(key, page)

	return page, nil
}
