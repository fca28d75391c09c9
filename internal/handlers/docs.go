package handlers

import (
	"encoding/json"
	"net/http"
)

// asOfParam is shared by every dashboard endpoint.
var asOfParam = map[string]interface{}{
	"name":        "as_of",
	"in":          "query",
	"description": "Anchor date for trailing windows (YYYY-MM-DD, default today UTC)",
	"required":    false,
	"schema":      map[string]string{"type": "string", "format": "date"},
}

func pathParam(name, description string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"in":          "path",
		"description": description,
		"required":    true,
		"schema":      map[string]string{"type": "integer"},
	}
}

func jsonResponse(description string, properties map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"200": map[string]interface{}{
			"description": description,
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"schema": map[string]interface{}{
						"type":       "object",
						"properties": properties,
					},
				},
			},
		},
		"404": map[string]interface{}{
			"description": "Team or athlete not found",
		},
	}
}

// OpenAPISpec returns the OpenAPI 3.0 specification for the Coach Partner analytics API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Coach Partner Analytics API",
			"description": "Training load, readiness and team KPI analytics for coached sports teams",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "Coach Partner Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/dashboard/training-load/{team_id}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get team training load",
					"description": "Acute/chronic workload ratio, monotony, strain, weekly trend and per-athlete breakdown",
					"parameters": []map[string]interface{}{
						pathParam("team_id", "Team ID"),
						asOfParam,
					},
					"responses": jsonResponse("Training load report", map[string]interface{}{
						"acwr":         map[string]string{"type": "number"},
						"acute_load":   map[string]string{"type": "number"},
						"chronic_load": map[string]string{"type": "number"},
						"monotony":     map[string]string{"type": "number"},
						"strain":       map[string]string{"type": "number"},
						"risk":         map[string]string{"type": "string"},
						"risk_label":   map[string]string{"type": "string"},
						"risk_color":   map[string]string{"type": "string"},
						"weekly_trend": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"week":      map[string]string{"type": "string"},
									"load":      map[string]string{"type": "number"},
									"sessions":  map[string]string{"type": "integer"},
									"avg_daily": map[string]string{"type": "number"},
								},
							},
						},
						"athlete_loads": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"athlete_id": map[string]string{"type": "integer"},
									"name":       map[string]string{"type": "string"},
									"load":       map[string]string{"type": "number"},
									"sessions":   map[string]string{"type": "integer"},
								},
							},
						},
					}),
				},
			},
			"/api/dashboard/suggestions/{team_id}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get readiness-based training suggestions",
					"description": "Rule-engine recommendation for the next session based on the trailing week's wellness, workload and injuries",
					"parameters": []map[string]interface{}{
						pathParam("team_id", "Team ID"),
						asOfParam,
					},
					"responses": jsonResponse("Training suggestions", map[string]interface{}{
						"intensity":          map[string]interface{}{"type": "string", "enum": []string{"low", "medium", "high"}},
						"intensity_reason":   map[string]string{"type": "string"},
						"suggested_duration": map[string]string{"type": "integer"},
						"focus_areas": map[string]interface{}{
							"type":  "array",
							"items": map[string]string{"type": "string"},
						},
						"warnings": map[string]interface{}{
							"type":  "array",
							"items": map[string]string{"type": "string"},
						},
						"recovery_score":  map[string]string{"type": "integer"},
						"readiness_score": map[string]string{"type": "integer"},
						"metrics": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"avg_energy":         map[string]string{"type": "number"},
								"avg_stress":         map[string]string{"type": "number"},
								"avg_sleep":          map[string]string{"type": "number"},
								"avg_doms":           map[string]string{"type": "number"},
								"injury_count":       map[string]string{"type": "integer"},
								"sessions_this_week": map[string]string{"type": "integer"},
								"avg_rpe":            map[string]interface{}{"type": "number", "nullable": true},
							},
						},
					}),
				},
			},
			"/api/dashboard/stats/{team_id}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get team KPI dashboard",
					"description": "Headline KPIs, 4-week trend, attendance rate and roster health",
					"parameters": []map[string]interface{}{
						pathParam("team_id", "Team ID"),
						asOfParam,
					},
					"responses": jsonResponse("Team statistics", map[string]interface{}{
						"kpis": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"total_athletes":       map[string]string{"type": "integer"},
								"total_sessions":       map[string]string{"type": "integer"},
								"total_matches":        map[string]string{"type": "integer"},
								"win_rate":             map[string]string{"type": "number"},
								"avg_session_duration": map[string]string{"type": "number"},
								"completed_sessions":   map[string]string{"type": "integer"},
							},
						},
						"weekly_trend": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"week":     map[string]string{"type": "string"},
									"sessions": map[string]string{"type": "integer"},
									"matches":  map[string]string{"type": "integer"},
									"avg_rpe":  map[string]interface{}{"type": "number", "nullable": true},
								},
							},
						},
						"avg_attendance_rate": map[string]string{"type": "number"},
						"team_health": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"athletes_available":   map[string]string{"type": "integer"},
								"athletes_attention":   map[string]string{"type": "integer"},
								"athletes_unavailable": map[string]string{"type": "integer"},
							},
						},
					}),
				},
			},
			"/api/dashboard/athlete/{athlete_id}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get athlete workload summary",
					"description": "Trailing-week load, attendance percentage and active injuries for one athlete",
					"parameters": []map[string]interface{}{
						pathParam("athlete_id", "Athlete ID"),
						asOfParam,
					},
					"responses": jsonResponse("Athlete summary", map[string]interface{}{
						"athlete_id":        map[string]string{"type": "integer"},
						"name":              map[string]string{"type": "string"},
						"weekly_load":       map[string]string{"type": "number"},
						"sessions_attended": map[string]string{"type": "integer"},
						"total_sessions":    map[string]string{"type": "integer"},
						"attendance_pct":    map[string]string{"type": "number"},
						"active_injuries":   map[string]string{"type": "integer"},
					}),
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API and its database are reachable",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "API is healthy",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"status": map[string]string{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
