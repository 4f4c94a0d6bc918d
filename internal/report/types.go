package report

// RiskWarningReport 风险预警通报
type RiskWarningReport struct {
	TimeWindow      string         `json:"time_window"`
	AffectedArea    string         `json:"affected_area"`
	RiskLevel       string         `json:"risk_level"` // 一级~四级风险
	RiskType        string         `json:"risk_type"`  // 如 "暴雪+道路结冰+高峰拥堵"
	RiskAnalysis    *RiskAnalysis  `json:"risk_analysis"`
	HighRiskZones   []HighRiskZone `json:"high_risk_zones"`
	Recommendations []string       `json:"recommendations"`
	SOPReference    string         `json:"sop_reference"`
}

// RiskAnalysis 风险分析明细
type RiskAnalysis struct {
	WeatherRisk      WeatherRisk `json:"weather_risk"`
	TrafficRisk      TrafficRisk `json:"traffic_risk"`
	EventRisk        EventRisk   `json:"event_risk"`
	OverallRiskScore int         `json:"overall_risk_score"`
	RiskFactors      string      `json:"risk_factors"`
}

// WeatherRisk 天气风险
type WeatherRisk struct {
	HasSnow            bool   `json:"has_snow"`
	HasIcingRisk       bool   `json:"has_icing_risk"`
	SevereWeather      bool   `json:"severe_weather"`
	WeatherDescription string `json:"weather_description"`
	RiskScore          int    `json:"risk_score"`
}

// TrafficRisk 交通风险
type TrafficRisk struct {
	RushHour            bool   `json:"rush_hour"`
	AccidentCount       int    `json:"accident_count"`
	HighDensityStations int    `json:"high_density_stations"`
	TrafficPattern      string `json:"traffic_pattern"`
	RiskScore           int    `json:"risk_score"`
}

// EventRisk 事件风险
type EventRisk struct {
	ActiveEvents     int    `json:"active_events"`
	HighImpactEvents int    `json:"high_impact_events"`
	EventTypes       string `json:"event_types"`
	RiskScore        int    `json:"risk_score"`
}

// HighRiskZone 高风险区域
type HighRiskZone struct {
	ZoneName              string   `json:"zone_name"`
	Location              string   `json:"location"`
	RiskLevel             string   `json:"risk_level"`
	RiskFactors           string   `json:"risk_factors"`
	Latitude              float64  `json:"latitude,omitempty"`
	Longitude             float64  `json:"longitude,omitempty"`
	DeploymentSuggestions []string `json:"deployment_suggestions"`
}
