package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type reading struct {
	ID              string  `json:"_id"`
	Time            string  `json:"time"`
	HeartRate       int     `json:"heartRate"`
	BloodPressure   string  `json:"bloodPressure"`
	StressLevel     string  `json:"stressLevel"`
	SleepHours      float64 `json:"sleepHours"`
	ExerciseMinutes int     `json:"exerciseMinutes"`
}

type summary struct {
	Count       int      `json:"count"`
	HeartRate   int      `json:"heartRate"`
	Systolic    int      `json:"systolic"`
	Diastolic   int      `json:"diastolic"`
	Sleep       int      `json:"sleep"`
	Exercise    int      `json:"exercise"`
	StressLevel string   `json:"stressLevel"`
	Insights    []string `json:"insights"`
	Note        string   `json:"note"`
}

type tipBundle struct {
	Quote *struct {
		Text   string `json:"text"`
		Author string `json:"author"`
	} `json:"quote"`
	Tips []struct {
		Emoji       string `json:"emoji"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"tips"`
	Facts []string `json:"facts"`
}

type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 40 * time.Second},
	}
}

func (a *apiClient) get(path string, query url.Values, out interface{}) error {
	u := a.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	resp, err := a.http.Get(u)
	if err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *apiClient) summary(userID string) (summary, error) {
	var s summary
	err := a.get("/api/readings/summary", url.Values{"userId": {userID}}, &s)
	return s, err
}

func (a *apiClient) readings(userID string) ([]reading, error) {
	var rs []reading
	err := a.get("/api/readings/all", url.Values{"userId": {userID}}, &rs)
	return rs, err
}

func (a *apiClient) tips() (tipBundle, error) {
	var b tipBundle
	err := a.get("/api/ai/tips", nil, &b)
	return b, err
}
