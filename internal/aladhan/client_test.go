package aladhan

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nariman739/ramadan-bot/internal/city"
)

const todayBody = `{
  "code": 200,
  "status": "OK",
  "data": {
    "timings": {
      "Imsak": "05:12 (+06)",
      "Fajr": "05:32 (+06)",
      "Sunrise": "07:05 (+06)",
      "Dhuhr": "12:58 (+06)",
      "Asr": "16:10 (+06)",
      "Maghrib": "18:44 (+06)",
      "Isha": "20:12 (+06)"
    },
    "date": {
      "hijri": {"day": "15", "month": {"number": 9, "en": "Ramaḍān"}},
      "gregorian": {"date": "05-03-2026"}
    }
  }
}`

func monthBody(days int) string {
	out := `{"code":200,"data":[`
	for i := 0; i < days; i++ {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{
			"timings": {"Imsak":"05:%02d (+06)","Fajr":"05:30","Maghrib":"18:44 (+06)","Isha":"20:12"},
			"date": {
				"hijri": {"day": "%d", "month": {"number": 9, "en": "Ramaḍān"}},
				"gregorian": {"date": "%02d-02-2026"}
			}
		}`, i, i+1, i+1)
	}
	return out + `]}`
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	loc, err := time.LoadLocation("Asia/Almaty")
	require.NoError(t, err)

	c := New(srv.URL, 3, loc)
	c.Now = func() time.Time {
		return time.Date(2026, time.March, 5, 12, 0, 0, 0, loc)
	}
	return c
}

func TestFetchToday(t *testing.T) {
	var gotPath, gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, todayBody)
	})

	d, err := c.FetchToday(context.Background(), city.Resolve("astana"))
	require.NoError(t, err)

	assert.Equal(t, "/timingsByCity/05-03-2026", gotPath)
	assert.Contains(t, gotQuery, "city=Astana")
	assert.Contains(t, gotQuery, "country=Kazakhstan")
	assert.Contains(t, gotQuery, "method=3")

	assert.Equal(t, "05:12", d.Imsak, "timezone suffix must be stripped")
	assert.Equal(t, "18:44", d.Maghrib)
	assert.Equal(t, 15, d.HijriDay)
	assert.Equal(t, 9, d.HijriMonth)
	assert.Equal(t, "Ramaḍān", d.HijriMonthName)
	assert.Equal(t, "Астана", d.CityName)
}

func TestFetchTodayNon200(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.FetchToday(context.Background(), city.Resolve("astana"))
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchTodayMalformedBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": "nope"`)
	})
	_, err := c.FetchToday(context.Background(), city.Resolve("astana"))
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchTodayOutOfOrderTimes(t *testing.T) {
	body := `{"data":{"timings":{
		"Imsak":"05:12","Fajr":"05:32","Sunrise":"07:05","Dhuhr":"12:58",
		"Asr":"16:10","Maghrib":"04:00","Isha":"20:12"},
		"date":{"hijri":{"day":"15","month":{"number":9,"en":"Ramaḍān"}},
		"gregorian":{"date":"05-03-2026"}}}}`
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})
	_, err := c.FetchToday(context.Background(), city.Resolve("astana"))
	require.ErrorIs(t, err, ErrUnavailable, "out-of-order times are a fetch failure")
}

func TestFetchMonth(t *testing.T) {
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, monthBody(30))
	})

	days, err := c.FetchMonth(context.Background(), city.Resolve("almaty"), 1447, 9)
	require.NoError(t, err)

	assert.Equal(t, "/hijriCalendarByCity/1447/9", gotPath)
	require.Len(t, days, 30)

	// Provider order preserved, dates at local midnight.
	assert.Equal(t, 1, days[0].HijriDay)
	assert.Equal(t, 30, days[29].HijriDay)
	assert.Equal(t, "05:00", days[0].Imsak)
	first := days[0].Date
	assert.Equal(t, "Asia/Almaty", first.Location().String())
	assert.Equal(t, 0, first.Hour())
	assert.True(t, days[0].Date.Before(days[1].Date))
}

func TestFetchMonthEmpty(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	})
	_, err := c.FetchMonth(context.Background(), city.Resolve("almaty"), 1447, 9)
	require.ErrorIs(t, err, ErrUnavailable)
}
