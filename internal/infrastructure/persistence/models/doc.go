// Package models contains the GORM rows behind the persistence repositories.
// Domain types carry no GORM tags; each model converts to and from its
// domain type with ToDomain and a ...FromDomain constructor.
package models
