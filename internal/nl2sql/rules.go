package nl2sql

import "strings"

// generateSQLByRules 基于规则的SQL生成（AI不可用时的备选方案）
// 匹配优先级: 单车 > 投诉 > 事故 > 地铁 > 活动 > 默认统计
func generateSQLByRules(query string) string {
	lowerQuery := strings.ToLower(query)

	// 共享单车相关查询
	if containsAny(lowerQuery, "单车", "citibike", "bike") {
		if containsAny(lowerQuery, "站点", "station") {
			return "SELECT start_station_name, COUNT(*) as trip_count FROM citibike_trips_202402 GROUP BY start_station_name ORDER BY trip_count DESC LIMIT 10"
		}
		if containsAny(lowerQuery, "时间", "duration") {
			return "SELECT AVG(TIMESTAMPDIFF(MINUTE, started_at, ended_at)) as avg_duration FROM citibike_trips_202402 WHERE started_at IS NOT NULL AND ended_at IS NOT NULL LIMIT 100"
		}
		return "SELECT * FROM citibike_trips_202402 LIMIT 10"
	}

	// 投诉相关查询
	if containsAny(lowerQuery, "投诉", "complaint") {
		if containsAny(lowerQuery, "类型", "type") {
			return "SELECT complaint_type, COUNT(*) as count FROM complaints GROUP BY complaint_type ORDER BY count DESC LIMIT 10"
		}
		if containsAny(lowerQuery, "状态", "status") {
			return "SELECT status, COUNT(*) as count FROM complaints GROUP BY status LIMIT 10"
		}
		return "SELECT * FROM complaints LIMIT 10"
	}

	// 事故相关查询
	if containsAny(lowerQuery, "事故", "collision", "accident") {
		if containsAny(lowerQuery, "伤亡", "injured", "killed") {
			return "SELECT SUM(number_of_persons_injured) as total_injured, SUM(number_of_persons_killed) as total_killed FROM nyc_traffic_accidents WHERE crash_date >= '2024-02-01' AND crash_date <= '2024-02-29'"
		}
		if containsAny(lowerQuery, "区域", "borough") {
			return "SELECT borough, COUNT(*) as accident_count FROM nyc_traffic_accidents WHERE borough IS NOT NULL AND crash_date >= '2024-02-01' AND crash_date <= '2024-02-29' GROUP BY borough ORDER BY accident_count DESC LIMIT 10"
		}
		if containsAny(lowerQuery, "严重") {
			return "SELECT * FROM nyc_traffic_accidents WHERE (number_of_persons_killed > 0 OR number_of_persons_injured >= 3) AND crash_date >= '2024-02-01' AND crash_date <= '2024-02-29' ORDER BY number_of_persons_killed DESC, number_of_persons_injured DESC LIMIT 100"
		}
		return "SELECT * FROM nyc_traffic_accidents WHERE crash_date >= '2024-02-01' AND crash_date <= '2024-02-29' LIMIT 10"
	}

	// 地铁相关查询
	if containsAny(lowerQuery, "地铁", "subway", "客流") {
		if containsAny(lowerQuery, "站点", "station") {
			return "SELECT station_complex, AVG(ridership) as avg_ridership FROM subway_ridership WHERE transit_timestamp >= '2024-02-01' AND transit_timestamp <= '2024-02-29' GROUP BY station_complex ORDER BY avg_ridership DESC LIMIT 10"
		}
		if containsAny(lowerQuery, "客流量", "ridership") {
			return "SELECT DATE(transit_timestamp) as date, SUM(ridership) as total_ridership FROM subway_ridership WHERE transit_timestamp >= '2024-02-01' AND transit_timestamp <= '2024-02-29' GROUP BY DATE(transit_timestamp) ORDER BY date DESC LIMIT 10"
		}
		return "SELECT * FROM subway_ridership WHERE transit_timestamp >= '2024-02-01' AND transit_timestamp <= '2024-02-29' LIMIT 10"
	}

	// 活动相关查询
	if containsAny(lowerQuery, "活动", "event") {
		if containsAny(lowerQuery, "类型", "type") {
			return "SELECT event_name, COUNT(*) as count FROM nyc_permitted_events WHERE start_at >= '2024-02-01' AND start_at <= '2024-02-29' GROUP BY event_name ORDER BY count DESC LIMIT 10"
		}
		if containsAny(lowerQuery, "时间", "近期") {
			return "SELECT * FROM nyc_permitted_events WHERE start_at >= '2024-02-01' AND start_at <= '2024-02-29' ORDER BY start_at DESC LIMIT 10"
		}
		return "SELECT * FROM nyc_permitted_events WHERE start_at >= '2024-02-01' AND start_at <= '2024-02-29' LIMIT 10"
	}

	// 默认查询: 各表记录数统计
	return "SELECT 'citibike_trips_202402' as table_name, COUNT(*) as record_count FROM citibike_trips_202402 " +
		"UNION ALL SELECT 'complaints', COUNT(*) FROM complaints " +
		"UNION ALL SELECT 'nyc_traffic_accidents', COUNT(*) FROM nyc_traffic_accidents WHERE crash_date >= '2024-02-01' AND crash_date <= '2024-02-29' " +
		"UNION ALL SELECT 'nyc_permitted_events', COUNT(*) FROM nyc_permitted_events WHERE start_at >= '2024-02-01' AND start_at <= '2024-02-29' " +
		"UNION ALL SELECT 'subway_ridership', COUNT(*) FROM subway_ridership WHERE transit_timestamp >= '2024-02-01' AND transit_timestamp <= '2024-02-29'"
}

// containsAny 判断 s 是否包含任一关键词
func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
