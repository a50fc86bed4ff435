package scenario

// BuiltIn returns the five predefined archetypes.
func BuiltIn() *Catalog {
	c, err := NewCatalog(builtInDefinitions())
	if err != nil {
		panic(err)
	}
	return c
}

func builtInDefinitions() []Definition {
	return []Definition{
		{
			Tag:         Excellent,
			Title:       "Excellent Health",
			Description: "All regions operational with headroom to spare; predictions are high-confidence.",
			Status: StatusFigures{
				OverallHealth:        "excellent",
				UptimePercent:        Range{99.96, 99.99},
				BaseStationShare:     Range{0.995, 1},
				ConnectedDeviceShare: Range{0.99, 1},
				ThroughputGbps:       Range{840, 860},
				PredictionConfidence: Range{0.93, 0.97},
			},
			Telemetry: TelemetryRanges{
				ThroughputMbps:    Range{850, 950},
				LatencyMs:         Range{1.2, 3.5},
				PacketLossPercent: Range{0.001, 0.01},
				ErrorRate:         Range{0.0001, 0.001},
				CPUUtilization:    Range{45, 65},
				MemoryUtilization: Range{50, 70},
				ActiveSessions:    Range{15000, 25000},
				SignalStrengthDbm: Range{-70, -60},
			},
			FailureRisk: Range{0.02, 0.08},
			Forecast: ForecastRanges{
				RiskScore:       Range{15, 25},
				Confidence:      Range{0.9, 0.98},
				Incidents:       Range{0, 2},
				PeakUtilization: Range{0.65, 0.75},
			},
			Anomalies:         2,
			HighPriorityRatio: 0,
			Workflows:         1,
			Incidents:         3,
			ImpactMultiplier:  0.5,
			SLACompliance:     0.95,
		},
		{
			Tag:         Good,
			Title:       "Good with Minor Issues",
			Description: "Network healthy overall; a single region shows elevated load.",
			Status: StatusFigures{
				OverallHealth:        "good",
				UptimePercent:        Range{99.8, 99.9},
				BaseStationShare:     Range{0.99, 0.997},
				ConnectedDeviceShare: Range{0.98, 0.995},
				ThroughputGbps:       Range{815, 835},
				PredictionConfidence: Range{0.85, 0.9},
			},
			Telemetry: TelemetryRanges{
				ThroughputMbps:    Range{700, 850},
				LatencyMs:         Range{3.5, 8},
				PacketLossPercent: Range{0.01, 0.05},
				ErrorRate:         Range{0.001, 0.01},
				CPUUtilization:    Range{65, 80},
				MemoryUtilization: Range{70, 85},
				ActiveSessions:    Range{12000, 20000},
				SignalStrengthDbm: Range{-80, -70},
			},
			FailureRisk: Range{0.08, 0.20},
			Forecast: ForecastRanges{
				RiskScore:       Range{35, 55},
				Confidence:      Range{0.8, 0.9},
				Incidents:       Range{2, 5},
				PeakUtilization: Range{0.75, 0.85},
			},
			Anomalies:         5,
			HighPriorityRatio: 0.2,
			Workflows:         2,
			Incidents:         7,
			ImpactMultiplier:  1.0,
			SLACompliance:     0.88,
		},
		{
			Tag:         Degraded,
			Title:       "Degraded Performance",
			Description: "Several regions are congested; latency and error rates climb while capacity is rerouted.",
			Status: StatusFigures{
				OverallHealth:        "degraded",
				UptimePercent:        Range{98.8, 99.1},
				ActiveRegionsLost:    1,
				BaseStationShare:     Range{0.95, 0.97},
				ConnectedDeviceShare: Range{0.93, 0.95},
				ThroughputGbps:       Range{740, 770},
				PredictionConfidence: Range{0.7, 0.76},
			},
			Telemetry: TelemetryRanges{
				ThroughputMbps:    Range{400, 700},
				LatencyMs:         Range{8, 25},
				PacketLossPercent: Range{0.05, 0.2},
				ErrorRate:         Range{0.01, 0.05},
				CPUUtilization:    Range{80, 95},
				MemoryUtilization: Range{85, 95},
				ActiveSessions:    Range{8000, 15000},
				SignalStrengthDbm: Range{-90, -80},
			},
			FailureRisk: Range{0.25, 0.50},
			Forecast: ForecastRanges{
				RiskScore:       Range{65, 85},
				Confidence:      Range{0.7, 0.85},
				Incidents:       Range{5, 10},
				PeakUtilization: Range{0.85, 0.95},
			},
			Anomalies:         12,
			HighPriorityRatio: 0.6,
			Workflows:         4,
			Incidents:         15,
			ImpactMultiplier:  2.5,
			SLACompliance:     0.75,
		},
		{
			Tag:         Maintenance,
			Title:       "Maintenance Window",
			Description: "Planned work is under way; load is shifted away from the affected sites.",
			Status: StatusFigures{
				OverallHealth:        "good",
				UptimePercent:        Range{99.4, 99.5},
				BaseStationShare:     Range{0.98, 0.99},
				ConnectedDeviceShare: Range{0.97, 0.985},
				ThroughputGbps:       Range{805, 820},
				PredictionConfidence: Range{0.89, 0.93},
			},
			Telemetry: TelemetryRanges{
				ThroughputMbps:    Range{600, 800},
				LatencyMs:         Range{2, 6},
				PacketLossPercent: Range{0.005, 0.02},
				ErrorRate:         Range{0.0005, 0.005},
				CPUUtilization:    Range{40, 60},
				MemoryUtilization: Range{45, 65},
				ActiveSessions:    Range{10000, 18000},
				SignalStrengthDbm: Range{-75, -65},
			},
			FailureRisk: Range{0.05, 0.15},
			Forecast: ForecastRanges{
				RiskScore:       Range{25, 40},
				Confidence:      Range{0.85, 0.95},
				Incidents:       Range{1, 3},
				PeakUtilization: Range{0.6, 0.8},
			},
			Anomalies:         3,
			HighPriorityRatio: 0.1,
			Workflows:         2,
			Incidents:         5,
			ImpactMultiplier:  0.8,
			SLACompliance:     0.92,
		},
		{
			Tag:         Critical,
			Title:       "Critical Issues",
			Description: "Multiple regions are offline or failing; emergency healing requires approval.",
			Status: StatusFigures{
				OverallHealth:        "critical",
				UptimePercent:        Range{95.5, 95.9},
				ActiveRegionsLost:    2,
				BaseStationShare:     Range{0.85, 0.88},
				ConnectedDeviceShare: Range{0.77, 0.8},
				ThroughputGbps:       Range{620, 650},
				PredictionConfidence: Range{0.6, 0.7},
			},
			Telemetry: TelemetryRanges{
				ThroughputMbps:    Range{100, 400},
				LatencyMs:         Range{25, 80},
				PacketLossPercent: Range{0.2, 2},
				ErrorRate:         Range{0.05, 0.2},
				CPUUtilization:    Range{95, 99},
				MemoryUtilization: Range{95, 99},
				ActiveSessions:    Range{3000, 8000},
				SignalStrengthDbm: Range{-100, -90},
			},
			FailureRisk: Range{0.40, 0.80},
			Forecast: ForecastRanges{
				RiskScore:       Range{85, 95},
				Confidence:      Range{0.6, 0.8},
				Incidents:       Range{8, 15},
				PeakUtilization: Range{0.9, 0.99},
			},
			Anomalies:         18,
			HighPriorityRatio: 0.8,
			Workflows:         6,
			Incidents:         25,
			ImpactMultiplier:  4.0,
			SLACompliance:     0.65,
		},
	}
}
