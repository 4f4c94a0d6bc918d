package model

import "time"

// CitibikeTrip 共享单车出行记录 (2024年2月数据)
type CitibikeTrip struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	StartedAt        *time.Time `json:"started_at" gorm:"index"`
	StartStationName string     `json:"start_station_name" gorm:"size:255;index"`
	EndedAt          *time.Time `json:"ended_at"`
	EndStationName   string     `json:"end_station_name" gorm:"size:255"`
	StartLat         float64    `json:"start_lat"`
	StartLng         float64    `json:"start_lng"`
	EndLat           float64    `json:"end_lat"`
	EndLng           float64    `json:"end_lng"`
}

// TableName 指定表名
func (CitibikeTrip) TableName() string {
	return "citibike_trips_202402"
}

// Complaint 城市投诉记录
type Complaint struct {
	UniqueKey             uint       `gorm:"primaryKey;column:unique_key" json:"unique_key"`
	CreatedAt             *time.Time `json:"created_at" gorm:"index"`
	ClosedAt              *time.Time `json:"closed_at"`
	Agency                string     `json:"agency" gorm:"size:50"`
	ComplaintType         string     `json:"complaint_type" gorm:"size:100;index"`
	Descriptor            string     `json:"descriptor" gorm:"size:255"`
	Status                string     `json:"status" gorm:"size:50;index"`
	ResolutionDescription string     `json:"resolution_description" gorm:"type:text"`
	Latitude              float64    `json:"latitude"`
	Longitude             float64    `json:"longitude"`
	Borough               string     `json:"borough" gorm:"size:50;index"`
}

// TableName 指定表名
func (Complaint) TableName() string {
	return "complaints"
}

// TrafficAccident 机动车碰撞事故记录 (2024年2月数据)
type TrafficAccident struct {
	CollisionID                uint       `gorm:"primaryKey;column:collision_id" json:"collision_id"`
	CrashDate                  *time.Time `json:"crash_date" gorm:"index"`
	CrashTime                  string     `json:"crash_time" gorm:"size:10"`
	Borough                    string     `json:"borough" gorm:"size:50;index"`
	ZipCode                    string     `json:"zip_code" gorm:"size:10"`
	Latitude                   float64    `json:"latitude"`
	Longitude                  float64    `json:"longitude"`
	OnStreetName               string     `json:"on_street_name" gorm:"size:255"`
	CrossStreetName            string     `json:"cross_street_name" gorm:"size:255"`
	OffStreetName              string     `json:"off_street_name" gorm:"size:255"`
	NumberOfPersonsInjured     int        `json:"number_of_persons_injured"`
	NumberOfPersonsKilled      int        `json:"number_of_persons_killed"`
	NumberOfPedestriansInjured int        `json:"number_of_pedestrians_injured"`
	NumberOfPedestriansKilled  int        `json:"number_of_pedestrians_killed"`
	NumberOfCyclistInjured     int        `json:"number_of_cyclist_injured"`
	NumberOfCyclistKilled      int        `json:"number_of_cyclist_killed"`
	NumberOfMotoristInjured    int        `json:"number_of_motorist_injured"`
	NumberOfMotoristKilled     int        `json:"number_of_motorist_killed"`
	ContributingFactorVehicle1 string     `json:"contributing_factor_vehicle_1" gorm:"size:255"`
	ContributingFactorVehicle2 string     `json:"contributing_factor_vehicle_2" gorm:"size:255"`
	VehicleTypeCode1           string     `json:"vehicle_type_code1" gorm:"size:100"`
	VehicleTypeCode2           string     `json:"vehicle_type_code2" gorm:"size:100"`
}

// TableName 指定表名
func (TrafficAccident) TableName() string {
	return "nyc_traffic_accidents"
}

// PermittedEvent 许可活动记录 (2024年2月数据)
type PermittedEvent struct {
	EventID           uint       `gorm:"primaryKey;column:event_id" json:"event_id"`
	EventName         string     `json:"event_name" gorm:"size:255;index"`
	StartAt           *time.Time `json:"start_at" gorm:"index"`
	EndAt             *time.Time `json:"end_at"`
	EventBorough      string     `json:"event_borough" gorm:"size:50;index"`
	EventLocation     string     `json:"event_location" gorm:"type:text"`
	EventStreetSide   string     `json:"event_street_side" gorm:"size:50"`
	StreetClosureType string     `json:"street_closure_type" gorm:"size:100"`
	Latitude          float64    `json:"latitude"`
	Longitude         float64    `json:"longitude"`
}

// TableName 指定表名
func (PermittedEvent) TableName() string {
	return "nyc_permitted_events"
}

// SubwayRidership 地铁客流记录 (2024年2月数据)
type SubwayRidership struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	TransitTimestamp *time.Time `json:"transit_timestamp" gorm:"index"`
	StationComplexID string     `json:"station_complex_id" gorm:"size:20;index"`
	StationComplex   string     `json:"station_complex" gorm:"size:255"`
	Borough          string     `json:"borough" gorm:"size:50;index"`
	Ridership        int        `json:"ridership"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
}

// TableName 指定表名
func (SubwayRidership) TableName() string {
	return "subway_ridership"
}

// WeatherData 天气记录, 风险预警用
type WeatherData struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	RecordDate    *time.Time `json:"record_date" gorm:"index"`
	Temperature   float64    `json:"temperature"`    // 摄氏度
	Precipitation float64    `json:"precipitation"`  // 降水量 mm
	Snow          float64    `json:"snow"`           // 降雪量 mm
	WindSpeed     float64    `json:"wind_speed"`     // 风速 km/h
	Description   string     `json:"description" gorm:"size:255"`
}

// TableName 指定表名
func (WeatherData) TableName() string {
	return "weather_data"
}

// HasIcingRisk 是否存在道路结冰风险(低温+降水/降雪)
func (w *WeatherData) HasIcingRisk() bool {
	return w.Temperature <= 0 && (w.Precipitation > 0 || w.Snow > 0)
}

// IsSevereWeather 是否恶劣天气
func (w *WeatherData) IsSevereWeather() bool {
	return w.Snow > 10 || w.Precipitation > 25 || w.WindSpeed > 50
}
