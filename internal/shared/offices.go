package shared

import "noonpick/internal/domain"

// DefaultOffices is the initial office directory, inserted when the table
// is empty.
var DefaultOffices = []domain.Office{
	{
		Code:      "seoul",
		Name:      "Seoul Office",
		Address:   "서울특별시 강남구 테헤란로 521, 파르나스 타워 16층",
		Lat:       37.5093056,
		Lng:       127.0610611,
		IsDefault: true,
	},
	{
		Code:    "daejeon",
		Name:    "Daejeon Office",
		Address: "대전광역시 유성구 문지로 272-16 502호",
		Lat:     36.39116,
		Lng:     127.40800,
	},
}
