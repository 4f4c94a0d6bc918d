package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"gorm.io/gorm"

	"github.com/opsre/trafficmind/internal/model"
)

// 风险等级
const (
	RiskLevel1 = "一级风险" // 高风险
	RiskLevel2 = "二级风险" // 中高风险
	RiskLevel3 = "三级风险" // 中等风险
	RiskLevel4 = "四级风险" // 低风险
)

// RiskService 主动风险预警服务
// 典型场景: 识别"暴雪+晚高峰+道路结冰隐患"的叠加风险
type RiskService struct {
	db *gorm.DB
}

// NewRiskService 创建风险预警服务
func NewRiskService(db *gorm.DB) *RiskService {
	return &RiskService{db: db}
}

// GenerateRiskWarning 生成风险预警通报
func (s *RiskService) GenerateRiskWarning(ctx context.Context, target time.Time) (*RiskWarningReport, error) {
	analysis, err := s.analyzeRisks(ctx, target)
	if err != nil {
		return nil, err
	}

	riskLevel := determineRiskLevel(analysis)

	zones, err := s.identifyHighRiskZones(ctx, target)
	if err != nil {
		logx.Warn("High risk zone identification failed: %v", err)
		zones = nil
	}

	return &RiskWarningReport{
		TimeWindow:      formatTimeWindow(target),
		AffectedArea:    "纽约市曼哈顿区",
		RiskLevel:       riskLevel,
		RiskType:        determineRiskType(analysis),
		RiskAnalysis:    analysis,
		HighRiskZones:   zones,
		Recommendations: generateRecommendations(riskLevel, analysis),
		SOPReference:    sopReference(riskLevel),
	}, nil
}

// HasRiskConditions 是否存在需要预警的风险(二级及以上)
func (s *RiskService) HasRiskConditions(ctx context.Context, target time.Time) (bool, error) {
	analysis, err := s.analyzeRisks(ctx, target)
	if err != nil {
		return false, err
	}

	level := determineRiskLevel(analysis)
	return level == RiskLevel1 || level == RiskLevel2, nil
}

// analyzeRisks 分析各类风险并汇总评分
func (s *RiskService) analyzeRisks(ctx context.Context, target time.Time) (*RiskAnalysis, error) {
	weatherRisk, err := s.analyzeWeatherRisk(ctx, target)
	if err != nil {
		return nil, err
	}

	trafficRisk, err := s.analyzeTrafficRisk(ctx, target)
	if err != nil {
		return nil, err
	}

	eventRisk, err := s.analyzeEventRisk(ctx, target)
	if err != nil {
		return nil, err
	}

	analysis := &RiskAnalysis{
		WeatherRisk:      *weatherRisk,
		TrafficRisk:      *trafficRisk,
		EventRisk:        *eventRisk,
		OverallRiskScore: weatherRisk.RiskScore + trafficRisk.RiskScore + eventRisk.RiskScore,
	}
	analysis.RiskFactors = generateRiskFactors(analysis)

	return analysis, nil
}

// analyzeWeatherRisk 分析天气风险
func (s *RiskService) analyzeWeatherRisk(ctx context.Context, target time.Time) (*WeatherRisk, error) {
	dayStart := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var weather model.WeatherData
	err := s.db.WithContext(ctx).
		Where("record_date >= ? AND record_date < ?", dayStart, dayEnd).
		First(&weather).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &WeatherRisk{WeatherDescription: "天气数据不可用"}, nil
		}
		return nil, fmt.Errorf("failed to load weather data: %w", err)
	}

	risk := &WeatherRisk{
		HasSnow:            weather.Snow > 0,
		HasIcingRisk:       weather.HasIcingRisk(),
		SevereWeather:      weather.IsSevereWeather(),
		WeatherDescription: weather.Description,
	}

	if risk.HasSnow {
		risk.RiskScore += 30
	}
	if risk.HasIcingRisk {
		risk.RiskScore += 25
	}
	if risk.SevereWeather {
		risk.RiskScore += 20
	}

	return risk, nil
}

// analyzeTrafficRisk 分析交通风险
func (s *RiskService) analyzeTrafficRisk(ctx context.Context, target time.Time) (*TrafficRisk, error) {
	hour := target.Hour()
	rushHour := (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19)

	startDate := target.AddDate(0, 0, -30)
	endDate := target.AddDate(0, 0, 1)

	var accidentCount int64
	if err := s.db.WithContext(ctx).
		Model(&model.TrafficAccident{}).
		Where("crash_date >= ? AND crash_date <= ?", startDate, endDate).
		Count(&accidentCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count accidents: %w", err)
	}

	highDensity, err := s.highDensityStations(ctx, startDate, endDate, 500)
	if err != nil {
		return nil, err
	}

	risk := &TrafficRisk{
		RushHour:            rushHour,
		AccidentCount:       int(accidentCount),
		HighDensityStations: len(highDensity),
	}

	if rushHour {
		risk.TrafficPattern = "高峰时段 - 交通密度极高"
	} else {
		risk.TrafficPattern = "平峰时段 - 交通密度正常"
	}

	if rushHour {
		risk.RiskScore += 25
	}
	if risk.AccidentCount > 10 {
		risk.RiskScore += 20
	}
	if risk.HighDensityStations > 5 {
		risk.RiskScore += 15
	}

	return risk, nil
}

// analyzeEventRisk 分析事件风险
// 占用街道的活动视为高影响事件
func (s *RiskService) analyzeEventRisk(ctx context.Context, target time.Time) (*EventRisk, error) {
	startTime := target.Add(-2 * time.Hour)
	endTime := target.Add(2 * time.Hour)

	var events []model.PermittedEvent
	if err := s.db.WithContext(ctx).
		Where("event_borough = ? AND start_at <= ? AND end_at >= ?", "Manhattan", endTime, startTime).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	risk := &EventRisk{ActiveEvents: len(events)}

	typeCount := make(map[string]int)
	for _, event := range events {
		if event.StreetClosureType != "" {
			risk.HighImpactEvents++
			typeCount[event.StreetClosureType]++
		} else {
			typeCount["无道路封闭"]++
		}
	}

	types := make([]string, 0, len(typeCount))
	for name := range typeCount {
		types = append(types, name)
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, name := range types {
		parts = append(parts, fmt.Sprintf("%s(%d)", name, typeCount[name]))
	}
	if len(parts) == 0 {
		risk.EventTypes = "无活跃事件"
	} else {
		risk.EventTypes = strings.Join(parts, ", ")
	}

	if risk.ActiveEvents > 3 {
		risk.RiskScore += 15
	}
	if risk.HighImpactEvents > 0 {
		risk.RiskScore += 20
	}

	return risk, nil
}

// identifyHighRiskZones 识别高风险区域
func (s *RiskService) identifyHighRiskZones(ctx context.Context, target time.Time) ([]HighRiskZone, error) {
	var zones []HighRiskZone

	startDate := target.AddDate(0, 0, -30)
	endDate := target.AddDate(0, 0, 1)

	// 1. 事故多发街道
	type streetCount struct {
		OnStreetName  string
		AccidentCount int64
	}
	var streets []streetCount
	if err := s.db.WithContext(ctx).
		Model(&model.TrafficAccident{}).
		Select("on_street_name, COUNT(*) as accident_count").
		Where("crash_date >= ? AND crash_date <= ? AND on_street_name != ''", startDate, endDate).
		Group("on_street_name").
		Order("accident_count DESC").
		Limit(5).
		Scan(&streets).Error; err != nil {
		return nil, fmt.Errorf("failed to rank accident streets: %w", err)
	}

	for _, street := range streets {
		if street.AccidentCount <= 3 { // 只考虑事故数量较多的街道
			continue
		}
		level := "高风险"
		if street.AccidentCount > 10 {
			level = "极高风险"
		}
		zones = append(zones, HighRiskZone{
			ZoneName:    "事故多发区域",
			Location:    street.OnStreetName,
			RiskLevel:   level,
			RiskFactors: "历史事故频发，天气条件恶化",
			DeploymentSuggestions: []string{
				"增派交警巡逻",
				"设置临时警示标志",
				"加强路面除雪除冰",
				"限制车辆通行速度",
			},
		})
	}

	// 2. 人流密集的地铁站周边
	stations, err := s.highDensityStations(ctx, startDate, endDate, 800)
	if err != nil {
		return nil, err
	}
	limit := len(stations)
	if limit > 3 {
		limit = 3
	}
	for _, station := range stations[:limit] {
		zones = append(zones, HighRiskZone{
			ZoneName:    "人流密集区域",
			Location:    station.StationComplex + "地铁站周边",
			RiskLevel:   "中高风险",
			RiskFactors: "人流密集，恶劣天气下疏散困难",
			Latitude:    station.Latitude,
			Longitude:   station.Longitude,
			DeploymentSuggestions: []string{
				"增加地面引导人员",
				"开放临时避难场所",
				"加强地铁站周边除雪",
				"准备应急疏散预案",
			},
		})
	}

	return zones, nil
}

// highDensityStations 查询客流超过阈值的地铁站点记录
func (s *RiskService) highDensityStations(ctx context.Context, start, end time.Time, threshold int) ([]model.SubwayRidership, error) {
	var stations []model.SubwayRidership
	err := s.db.WithContext(ctx).
		Where("transit_timestamp >= ? AND transit_timestamp <= ? AND ridership > ?", start, end, threshold).
		Order("ridership DESC").
		Find(&stations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load high density stations: %w", err)
	}
	return stations, nil
}

// determineRiskLevel 按综合评分确定风险等级
func determineRiskLevel(analysis *RiskAnalysis) string {
	score := analysis.OverallRiskScore
	switch {
	case score >= 70:
		return RiskLevel1
	case score >= 50:
		return RiskLevel2
	case score >= 30:
		return RiskLevel3
	default:
		return RiskLevel4
	}
}

// determineRiskType 拼接风险类型描述
func determineRiskType(analysis *RiskAnalysis) string {
	var types []string

	if analysis.WeatherRisk.HasSnow {
		types = append(types, "暴雪")
	}
	if analysis.WeatherRisk.HasIcingRisk {
		types = append(types, "道路结冰")
	}
	if analysis.WeatherRisk.SevereWeather {
		types = append(types, "恶劣天气")
	}
	if analysis.TrafficRisk.RushHour {
		types = append(types, "高峰拥堵")
	}
	if analysis.EventRisk.HighImpactEvents > 0 {
		types = append(types, "重大事件")
	}

	if len(types) == 0 {
		return "综合风险"
	}
	return strings.Join(types, "+")
}

// generateRecommendations 生成建议措施
func generateRecommendations(riskLevel string, analysis *RiskAnalysis) []string {
	var recommendations []string

	switch riskLevel {
	case RiskLevel1:
		recommendations = append(recommendations,
			"立即启动应急预案，全面部署应急资源",
			"发布交通管制通告，限制非必要车辆出行",
			"开放所有应急避难场所")
	case RiskLevel2:
		recommendations = append(recommendations,
			"启动二级应急响应，重点区域部署警力",
			"发布交通安全提醒，建议市民谨慎出行",
			"加强重点路段巡逻和监控")
	case RiskLevel3:
		recommendations = append(recommendations,
			"加强交通监控，做好应急准备",
			"向市民发布出行提醒")
	default:
		recommendations = append(recommendations, "保持常规监控，关注天气变化")
	}

	if analysis.WeatherRisk.HasSnow {
		recommendations = append(recommendations,
			"启动除雪作业，优先保障主干道通行",
			"在坡道和桥梁设置防滑设施")
	}
	if analysis.WeatherRisk.HasIcingRisk {
		recommendations = append(recommendations,
			"重点关注桥梁、高架路段结冰情况",
			"准备融雪剂和防滑材料")
	}
	if analysis.TrafficRisk.RushHour {
		recommendations = append(recommendations,
			"在高峰时段增派交通疏导人员",
			"优化信号灯配时，提高通行效率")
	}
	if analysis.EventRisk.HighImpactEvents > 0 {
		recommendations = append(recommendations,
			"协调活动主办方，做好人流疏导",
			"制定活动期间应急疏散方案")
	}

	return recommendations
}

// sopReference 按风险等级给出 SOP 引用
func sopReference(riskLevel string) string {
	switch riskLevel {
	case RiskLevel1:
		return "SOP-PW-L1: 一级风险应急处置标准作业程序"
	case RiskLevel2:
		return "SOP-PW-L2: 二级风险预警处置标准作业程序"
	case RiskLevel3:
		return "SOP-PW-L3: 三级风险监控标准作业程序"
	default:
		return "SOP-PW-L4: 常规监控标准作业程序"
	}
}

// generateRiskFactors 生成风险因子描述
func generateRiskFactors(analysis *RiskAnalysis) string {
	var factors []string

	if analysis.WeatherRisk.HasSnow {
		factors = append(factors, "降雪天气")
	}
	if analysis.WeatherRisk.HasIcingRisk {
		factors = append(factors, "道路结冰风险")
	}
	if analysis.WeatherRisk.SevereWeather {
		factors = append(factors, "恶劣天气条件")
	}
	if analysis.TrafficRisk.RushHour {
		factors = append(factors, "交通高峰时段")
	}
	if analysis.TrafficRisk.AccidentCount > 10 {
		factors = append(factors, "历史事故频发")
	}
	if analysis.TrafficRisk.HighDensityStations > 5 {
		factors = append(factors, "人流密集")
	}
	if analysis.EventRisk.ActiveEvents > 3 {
		factors = append(factors, "多个活动同时进行")
	}
	if analysis.EventRisk.HighImpactEvents > 0 {
		factors = append(factors, "高影响事件")
	}

	if len(factors) == 0 {
		return "暂无明显风险因子"
	}
	return strings.Join(factors, "、")
}

// formatTimeWindow 格式化预警时间窗口(目标时刻起两小时)
func formatTimeWindow(target time.Time) string {
	end := target.Add(2 * time.Hour)
	return fmt.Sprintf("%04d年%02d月%02d日 %02d:%02d - %02d:%02d",
		target.Year(), target.Month(), target.Day(), target.Hour(), target.Minute(),
		end.Hour(), end.Minute())
}
