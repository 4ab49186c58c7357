// Package metrics holds the Prometheus collectors shared across the site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webstudio_http_requests_total",
		Help: "HTTP requests by method and status code.",
	}, []string{"method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webstudio_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	PageViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webstudio_page_views_total",
		Help: "Page views by outcome: recorded, skipped (admin), failed, dropped (queue full).",
	}, []string{"outcome"})

	AnalyticsEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webstudio_analytics_events_total",
		Help: "Custom analytics events by outcome.",
	}, []string{"outcome"})

	TranslationCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webstudio_translation_calls_total",
		Help: "Translation API calls by target locale and outcome.",
	}, []string{"locale", "outcome"})

	NewsletterSignups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webstudio_newsletter_signups_total",
		Help: "Newsletter subscribe attempts by outcome.",
	}, []string{"outcome"})

	ContactRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webstudio_contact_requests_total",
		Help: "Contact form submissions stored.",
	})

	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webstudio_image_uploads_total",
		Help: "Image uploads to the CDN by outcome.",
	}, []string{"outcome"})
)
