package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/responses"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/dashboard"
	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
)

type monthlyFunc func(dashboard.Service, context.Context, dashboard.WindowMode) ([]dashboard.Bucket, error)

func parseWindowMode(r *http.Request) (dashboard.WindowMode, error) {
	mode, err := dashboard.ParseWindowMode(strings.TrimSpace(r.URL.Query().Get("mode")))
	if err != nil {
		return "", pkgerrors.ValidationFailed("mode", "must be rolling or year")
	}
	return mode, nil
}

func monthlyHandler(svc dashboard.Service, logg *logger.Logger, fetch monthlyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "dashboard")
			return
		}
		mode, err := parseWindowMode(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		buckets, err := fetch(svc, r.Context(), mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buckets)
	}
}

// ProductsPerMonth serves the products chart: twelve zero-filled months.
func ProductsPerMonth(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return monthlyHandler(svc, logg, dashboard.Service.MonthlyProductCounts)
}

// OrdersPerMonth serves the orders chart: twelve zero-filled months.
func OrdersPerMonth(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return monthlyHandler(svc, logg, dashboard.Service.MonthlyOrderCounts)
}

func OrderStatusCounts(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "dashboard")
			return
		}
		counts, err := svc.OrderStatusCounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, counts)
	}
}

func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "dashboard")
			return
		}
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// Navigation serves the sidebar badges.
func Navigation(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "dashboard")
			return
		}
		nav, err := svc.Navigation(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nav)
	}
}
