package domain

import "time"

// Vehicle representa um veículo de entrega.
// RatedCapacityKg é a capacidade nominal de carga em quilogramas; nil
// significa sem restrição de capacidade (ex: moto sem baú aferido).
type Vehicle struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	PlateNumber     string     `json:"plate_number"`
	RatedCapacityKg *float64   `json:"rated_capacity_kg"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
