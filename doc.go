// Package main is the entry point of eter-admin, the Éter Store dashboard backend.
// It serves a JSON api over fiber for store settings, where every change is
// recorded in an append-only history that can be rolled back, and for the academy
// level and progress computation. Data is kept with gorm on mysql, postgres or sqlite.
package main
