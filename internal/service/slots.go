package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"optivolt/internal/entities"
	apperrors "optivolt/internal/errors"
	"optivolt/internal/repository"
	"optivolt/internal/utils"
)

const (
	lookaheadDays   = 21
	wantedDateCount = 7
)

// WorkSchedule is a provider's bookable window: whole opening hours and the
// set of working weekdays.
type WorkSchedule struct {
	StartHour int
	EndHour   int
	Days      [7]bool // Monday-based, Mon=0
}

// ParseWorkSchedule parses "HH:MM" opening hours and a working-day spec that
// is either a range ("Mon-Sat") or an explicit list ("Mon,Wed,Fri").
func ParseWorkSchedule(startHour, endHour, daySpec string) (WorkSchedule, error) {
	var ws WorkSchedule
	start, err := parseHour(startHour)
	if err != nil {
		return ws, err
	}
	end, err := parseHour(endHour)
	if err != nil {
		return ws, err
	}
	if end <= start {
		return ws, fmt.Errorf("end hour %q must be after start hour %q: %w",
			endHour, startHour, apperrors.ErrInvalidInput)
	}
	days, err := parseDaySpec(daySpec)
	if err != nil {
		return ws, err
	}
	ws.StartHour = start
	ws.EndHour = end
	ws.Days = days
	return ws, nil
}

func parseHour(s string) (int, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(s), ":")
	h, err := strconv.Atoi(head)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("bad hour %q: %w", s, apperrors.ErrInvalidInput)
	}
	return h, nil
}

func parseDaySpec(spec string) ([7]bool, error) {
	var days [7]bool
	spec = strings.TrimSpace(spec)
	if from, to, isRange := strings.Cut(spec, "-"); isRange {
		lo, okLo := utils.DayIndex(strings.TrimSpace(from))
		hi, okHi := utils.DayIndex(strings.TrimSpace(to))
		if !okLo || !okHi || hi < lo {
			return days, fmt.Errorf("bad working-day range %q: %w", spec, apperrors.ErrInvalidInput)
		}
		for i := lo; i <= hi; i++ {
			days[i] = true
		}
		return days, nil
	}
	for _, token := range strings.Split(spec, ",") {
		i, ok := utils.DayIndex(strings.TrimSpace(token))
		if !ok {
			return days, fmt.Errorf("bad working-day token %q in %q: %w", token, spec, apperrors.ErrInvalidInput)
		}
		days[i] = true
	}
	return days, nil
}

// HourTicks lists the bookable slot starts, start hour inclusive to end hour
// exclusive.
func (ws WorkSchedule) HourTicks() []string {
	ticks := make([]string, 0, ws.EndHour-ws.StartHour)
	for h := ws.StartHour; h < ws.EndHour; h++ {
		ticks = append(ticks, fmt.Sprintf("%02d:00", h))
	}
	return ticks
}

// ContainsTick reports whether hour is a valid slot start for the schedule.
func (ws WorkSchedule) ContainsTick(hour string) bool {
	for _, t := range ws.HourTicks() {
		if t == hour {
			return true
		}
	}
	return false
}

func (ws WorkSchedule) IsWorkingDay(d time.Time) bool {
	return ws.Days[utils.MondayIndex(d.Weekday())]
}

// CandidateDates scans forward day by day starting tomorrow, keeping working
// days, until wanted dates are collected or the lookahead window ends. A
// sparse schedule yields fewer dates, which is not an error.
func (ws WorkSchedule) CandidateDates(from time.Time, lookahead, wanted int) []time.Time {
	var dates []time.Time
	for i := 1; i <= lookahead && len(dates) < wanted; i++ {
		d := from.AddDate(0, 0, i)
		if ws.IsWorkingDay(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

type SlotService struct {
	bookings  repository.BookingRepository
	providers repository.ProviderRepository
	log       *zap.Logger
}

func NewSlotService(bookings repository.BookingRepository, providers repository.ProviderRepository, log *zap.Logger) *SlotService {
	return &SlotService{bookings: bookings, providers: providers, log: log}
}

func (s *SlotService) schedule(providerID int) (WorkSchedule, error) {
	sched, err := s.providers.GetSchedule(providerID)
	if err != nil {
		return WorkSchedule{}, err
	}
	return ParseWorkSchedule(sched.StartHour, sched.EndHour, sched.WorkingDays)
}

// FreeSlots reads slot occupancy fresh on every call and subtracts it from
// the provider's hour ticks. The result is advisory: another client can claim
// a slot between this read and booking commit, so the commit path enforces
// exclusivity atomically. A non-working or fully booked date yields an empty
// free list, which signals the caller to pick another date.
func (s *SlotService) FreeSlots(providerID int, date string) (*entities.SlotsResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", date, apperrors.ErrInvalidInput)
	}
	ws, err := s.schedule(providerID)
	if err != nil {
		return nil, err
	}

	resp := &entities.SlotsResponse{ProviderID: providerID, Date: date, FreeHours: []string{}}
	if !ws.IsWorkingDay(day) {
		return resp, nil
	}

	occupied, err := s.bookings.OccupiedSlots(providerID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(occupied))
	for _, h := range occupied {
		taken[h] = true
	}
	for _, h := range ws.HourTicks() {
		if taken[h] {
			resp.BookedHours = append(resp.BookedHours, h)
		} else {
			resp.FreeHours = append(resp.FreeHours, h)
		}
	}
	if len(resp.FreeHours) == 0 {
		s.log.Debug("no free slots", zap.Int("provider_id", providerID), zap.String("date", date))
	}
	return resp, nil
}

// CandidateDates lists the provider's next bookable dates.
func (s *SlotService) CandidateDates(providerID int) (*entities.CandidateDatesResponse, error) {
	ws, err := s.schedule(providerID)
	if err != nil {
		return nil, err
	}
	resp := &entities.CandidateDatesResponse{ProviderID: providerID, Dates: []string{}}
	for _, d := range ws.CandidateDates(time.Now(), lookaheadDays, wantedDateCount) {
		resp.Dates = append(resp.Dates, d.Format("2006-01-02"))
	}
	return resp, nil
}
