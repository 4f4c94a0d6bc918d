package nl2sql

import "fmt"

// schemaInfo 数据库表结构信息, 提供给 LLM 作为生成依据
const schemaInfo = `数据库表结构信息：

1. citibike_trips_202402 - 共享单车出行数据 (2024年2月数据)
字段：started_at, start_station_name, ended_at, end_station_name, start_lat, start_lng, end_lat, end_lng

2. complaints - 城市投诉数据
字段：unique_key, closed_at, agency, complaint_type, descriptor, status, resolution_description, latitude, longitude, borough, created_at

3. nyc_traffic_accidents - 机动车碰撞事故 (注意：数据为2024年2月)
字段：collision_id, crash_date, crash_time, borough, zip_code, latitude, longitude, on_street_name, cross_street_name, off_street_name, number_of_persons_injured, number_of_persons_killed, number_of_pedestrians_injured, number_of_pedestrians_killed, number_of_cyclist_injured, number_of_cyclist_killed, number_of_motorist_injured, number_of_motorist_killed, contributing_factor_vehicle_1, contributing_factor_vehicle_2, vehicle_type_code1, vehicle_type_code2

4. nyc_permitted_events - 纽约许可活动数据 (注意：数据为2024年2月)
字段：event_id, event_name, start_at, end_at, event_borough, event_location, event_street_side, street_closure_type, latitude, longitude, geocode_query, geocode_status

5. subway_ridership - 地铁客流数据 (注意：数据为2024年2月)
字段：transit_timestamp, station_complex_id, station_complex, borough, ridership, latitude, longitude, stratum
`

// buildPrompt 构建 NL2SQL 的提示词
func buildPrompt(query string) string {
	return fmt.Sprintf(`你是一个专业的SQL查询生成器，专门处理智慧交通数据查询。

%s

用户问题：%s

请根据用户问题生成对应的SQL查询语句。要求：
1. 只返回SQL语句，不要其他解释
2. 使用标准的MySQL语法
3. 确保查询安全，只允许SELECT操作
4. 所有时间相关的查询必须限定在2024年2月1日至2024年2月29日范围内
5. 如果涉及地理位置，可以使用latitude和longitude字段
6. 限制返回结果数量，添加LIMIT子句（建议100以内）
7. 注意：数据库中存储的是2024年2月的历史数据，不要查询最近的数据

SQL查询：
`, schemaInfo, query)
}
