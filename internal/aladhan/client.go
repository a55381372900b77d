// Package aladhan is a client for the aladhan.com prayer times API.
package aladhan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Nariman739/ramadan-bot/internal/city"
	"github.com/Nariman739/ramadan-bot/internal/domain"
)

// ErrUnavailable covers every way a fetch can fail: network error, non-200,
// malformed body. Callers treat it as "data temporarily unavailable" and
// must not fall back to partial data.
var ErrUnavailable = errors.New("prayer times unavailable")

// Client fetches prayer times for a city.
type Client struct {
	BaseURL string
	Method  int // calculation method, e.g. 3 = Muslim World League
	HTTP    *http.Client
	Loc     *time.Location

	// Now is the clock used for "today"; tests override it.
	Now func() time.Time
}

// New builds a client with a sane default HTTP timeout.
func New(baseURL string, method int, loc *time.Location) *Client {
	return &Client{
		BaseURL: baseURL,
		Method:  method,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Loc:     loc,
		Now:     time.Now,
	}
}

type timingsPayload struct {
	Imsak   string `json:"Imsak"`
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

type datePayload struct {
	Hijri struct {
		Day   string `json:"day"`
		Month struct {
			Number int    `json:"number"`
			En     string `json:"en"`
		} `json:"month"`
	} `json:"hijri"`
	Gregorian struct {
		Date string `json:"date"` // DD-MM-YYYY
	} `json:"gregorian"`
}

type todayResponse struct {
	Data struct {
		Timings timingsPayload `json:"timings"`
		Date    datePayload    `json:"date"`
	} `json:"data"`
}

type monthResponse struct {
	Data []struct {
		Timings timingsPayload `json:"timings"`
		Date    datePayload    `json:"date"`
	} `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, ct city.City, out any) error {
	q := url.Values{
		"city":    {ct.Provider},
		"country": {ct.Country},
		"method":  {strconv.Itoa(c.Method)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return nil
}

// FetchToday returns today's times for the city, validated. The current date
// is taken in the client's location.
func (c *Client) FetchToday(ctx context.Context, ct city.City) (*domain.DailyTimes, error) {
	now := c.Now().In(c.Loc)
	path := "/timingsByCity/" + now.Format("02-01-2006")

	var resp todayResponse
	if err := c.get(ctx, path, ct, &resp); err != nil {
		return nil, err
	}

	t := resp.Data.Timings
	h := resp.Data.Date.Hijri
	hijriDay, err := strconv.Atoi(h.Day)
	if err != nil {
		return nil, fmt.Errorf("%w: hijri day %q", ErrUnavailable, h.Day)
	}

	d := &domain.DailyTimes{
		Imsak:          domain.CleanTime(t.Imsak),
		Fajr:           domain.CleanTime(t.Fajr),
		Sunrise:        domain.CleanTime(t.Sunrise),
		Dhuhr:          domain.CleanTime(t.Dhuhr),
		Asr:            domain.CleanTime(t.Asr),
		Maghrib:        domain.CleanTime(t.Maghrib),
		Isha:           domain.CleanTime(t.Isha),
		HijriDay:       hijriDay,
		HijriMonthName: h.Month.En,
		HijriMonth:     h.Month.Number,
		Date:           now,
		CityName:       ct.Name,
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return d, nil
}

// FetchMonth returns the full hijri month schedule for the city. Entries
// keep the provider's ascending-date order; downstream code relies on it
// when computing remaining days.
func (c *Client) FetchMonth(ctx context.Context, ct city.City, hijriYear, hijriMonth int) ([]domain.ScheduleDay, error) {
	path := fmt.Sprintf("/hijriCalendarByCity/%d/%d", hijriYear, hijriMonth)

	var resp monthResponse
	if err := c.get(ctx, path, ct, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty calendar", ErrUnavailable)
	}

	days := make([]domain.ScheduleDay, 0, len(resp.Data))
	for _, entry := range resp.Data {
		date, err := domain.ParseGregorianDate(entry.Date.Gregorian.Date, c.Loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		hijriDay, err := strconv.Atoi(entry.Date.Hijri.Day)
		if err != nil {
			return nil, fmt.Errorf("%w: hijri day %q", ErrUnavailable, entry.Date.Hijri.Day)
		}
		days = append(days, domain.ScheduleDay{
			Date:     date,
			HijriDay: hijriDay,
			Imsak:    domain.CleanTime(entry.Timings.Imsak),
			Fajr:     domain.CleanTime(entry.Timings.Fajr),
			Maghrib:  domain.CleanTime(entry.Timings.Maghrib),
			Isha:     domain.CleanTime(entry.Timings.Isha),
		})
	}
	return days, nil
}
