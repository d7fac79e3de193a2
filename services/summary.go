package services

import (
	"math"
	"strconv"
	"strings"

	"vitals-server/entities"

	"github.com/samber/lo"
)

// StressNormal is reported when there are no readings to vote on.
const StressNormal = "Normal"

const (
	emptyHistoryInsight = "No readings yet. Add your first reading to see personalized tips."
	insightsNote        = "These are lifestyle-based insights, not medical diagnoses."
)

// Summary is the dashboard view of an owner's reading history.
type Summary struct {
	Count       int      `json:"count"`
	HeartRate   int      `json:"heartRate"`
	Systolic    int      `json:"systolic"`
	Diastolic   int      `json:"diastolic"`
	Sleep       int      `json:"sleep"`
	Exercise    int      `json:"exercise"`
	StressLevel string   `json:"stressLevel"`
	Insights    []string `json:"insights"`
	Note        string   `json:"note,omitempty"`
}

// Summarize averages the readings (rounded to whole numbers), takes the
// majority stress level and derives the trend insights.
func Summarize(readings []entities.Reading) Summary {
	if len(readings) == 0 {
		return Summary{
			StressLevel: StressNormal,
			Insights:    []string{emptyHistoryInsight},
		}
	}

	s := Summary{
		Count: len(readings),
		HeartRate: average(lo.Map(readings, func(r entities.Reading, _ int) float64 {
			return float64(r.HeartRate)
		})),
		Systolic: average(lo.Map(readings, func(r entities.Reading, _ int) float64 {
			sys, _ := splitBloodPressure(r.BloodPressure)
			return float64(sys)
		})),
		Diastolic: average(lo.Map(readings, func(r entities.Reading, _ int) float64 {
			_, dia := splitBloodPressure(r.BloodPressure)
			return float64(dia)
		})),
		Sleep: average(lo.Map(readings, func(r entities.Reading, _ int) float64 {
			return r.SleepHours
		})),
		Exercise: average(lo.Map(readings, func(r entities.Reading, _ int) float64 {
			return float64(r.ExerciseMinutes)
		})),
		StressLevel: majorityStress(readings),
		Note:        insightsNote,
	}
	s.Insights = insights(s)
	return s
}

// majorityStress picks High when it is at least as common as the other
// levels, then Moderate over Low, and Low otherwise.
func majorityStress(readings []entities.Reading) string {
	count := func(level string) int {
		return lo.CountBy(readings, func(r entities.Reading) bool { return r.StressLevel == level })
	}
	high, moderate, low := count(entities.StressHigh), count(entities.StressModerate), count(entities.StressLow)

	switch {
	case high > 0 && high >= moderate && high >= low:
		return entities.StressHigh
	case moderate > 0 && moderate >= low:
		return entities.StressModerate
	default:
		return entities.StressLow
	}
}

func insights(s Summary) []string {
	var out []string

	switch {
	case s.HeartRate > 90:
		out = append(out, "Your average heart rate is high. This may be due to stress, poor sleep, or low physical activity.")
	case s.HeartRate > 80:
		out = append(out, "Your average heart rate is slightly elevated. Consider relaxation and proper rest.")
	case s.HeartRate < 60:
		out = append(out, "Your heart rate is on the lower side. This can be normal if you are physically active.")
	default:
		out = append(out, "Your average heart rate is within a healthy range. Good cardiovascular balance!")
	}

	switch {
	case s.Systolic >= 130 || s.Diastolic >= 80:
		out = append(out, "Your average blood pressure is high. Reduce salt intake, manage stress, and stay active.")
	case s.Systolic >= 120:
		out = append(out, "Your blood pressure is slightly elevated. Lifestyle improvements can help bring it down.")
	default:
		out = append(out, "Your blood pressure is within a healthy range. Keep maintaining these habits.")
	}

	switch s.StressLevel {
	case entities.StressHigh:
		out = append(out, "Stress levels are high. Consider meditation, breathing exercises, or a short walk.")
	case entities.StressModerate:
		out = append(out, "Stress is moderate. Take short breaks and avoid long continuous work sessions.")
	default:
		out = append(out, "Stress levels are low. Great mental balance!")
	}

	if s.Exercise < 30 {
		out = append(out, "Try to reach at least 30 minutes of daily physical activity for heart health.")
	} else {
		out = append(out, "Your exercise routine looks good. Consistency is key!")
	}
	return out
}

func average(values []float64) int {
	if len(values) == 0 {
		return 0
	}
	return int(math.Round(lo.Sum(values) / float64(len(values))))
}

// splitBloodPressure parses "SYS/DIA"; unparsable parts count as zero.
func splitBloodPressure(bp string) (int, int) {
	sysRaw, diaRaw, _ := strings.Cut(bp, "/")
	sys, _ := strconv.Atoi(sysRaw)
	dia, _ := strconv.Atoi(diaRaw)
	return sys, dia
}
