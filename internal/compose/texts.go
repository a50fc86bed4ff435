package compose

import "slices"

var severityLevels = []string{"low", "medium", "high", "critical"}

// severityRank orders severities; unknown values rank below low.
func severityRank(s string) int {
	return slices.Index(severityLevels, s)
}

var (
	rootCauseHypotheses = []string{
		"High traffic load exceeding capacity",
		"Hardware degradation detected",
		"Network congestion in core nodes",
		"Environmental factors affecting performance",
	}
	incidentActions = []string{
		"Scale up resources in affected region",
		"Redistribute traffic load",
		"Schedule preventive maintenance",
		"Update configuration parameters",
	}
	slaViolationKinds = []string{"availability", "latency", "throughput"}
)

var (
	anomalyTypes        = []string{"performance", "capacity", "connectivity", "hardware", "pattern"}
	anomalyDescriptions = []string{
		"Unusual spike in response time detected",
		"Memory utilization exceeding normal patterns",
		"Irregular network traffic pattern observed",
		"Component temperature rising above threshold",
	}
	anomalyMetrics = []string{"latency", "throughput", "cpu_utilization", "memory_utilization", "error_rate"}
)

var (
	riskFactors = []string{
		"High CPU utilization trending upward",
		"Memory leaks detected in system logs",
		"Hardware temperature exceeding normal range",
		"Increasing error rates in recent operations",
		"Component age approaching replacement cycle",
		"Environmental stress factors present",
	}
	riskActions = []string{
		"Schedule preventive maintenance",
		"Update firmware to latest version",
		"Increase monitoring frequency",
		"Prepare backup component for hot swap",
		"Review and optimize configuration",
		"Implement redundancy measures",
	}
)

var (
	incidentCategories = []string{"connectivity", "performance", "hardware", "configuration"}
	incidentRootCauses = []string{
		"Hardware failure in core network",
		"Software bug causing memory leak",
		"Network congestion during peak hours",
		"Configuration error after maintenance",
		"Environmental factors (power outage)",
		"DDoS attack on network infrastructure",
	}
	resolutionActions = []string{
		"Replaced faulty hardware component",
		"Applied software patch",
		"Increased network capacity",
		"Corrected configuration settings",
		"Implemented traffic filtering",
		"Restored from backup",
	}
)

// eventAnomalyType maps an event category onto an anomaly type.
func eventAnomalyType(category string) string {
	switch category {
	case "hardware", "connectivity":
		return category
	case "performance":
		return "capacity"
	}
	return "pattern"
}

var healingCatalog = []HealingAction{
	{"load_balance", "Redistribute network traffic across available resources", []string{"target_regions", "traffic_percentage"}, "low", "5-15 minutes"},
	{"scale_resources", "Automatically scale compute resources up or down", []string{"component_types", "scale_factor"}, "medium", "10-30 minutes"},
	{"restart_service", "Restart specific network services or components", []string{"service_names", "restart_sequence"}, "medium", "2-10 minutes"},
	{"reroute_traffic", "Redirect traffic through alternative network paths", []string{"source_regions", "destination_regions"}, "high", "1-5 minutes"},
	{"update_config", "Apply configuration updates to resolve issues", []string{"config_templates", "target_components"}, "medium", "15-45 minutes"},
	{"emergency_maintenance", "Trigger emergency maintenance procedures", []string{"maintenance_type", "affected_components"}, "high", "1-6 hours"},
}

func healingAction(actionType string) (HealingAction, bool) {
	for _, a := range healingCatalog {
		if a.ActionType == actionType {
			return a, true
		}
	}
	return HealingAction{}, false
}

var healingSteps = map[string][]string{
	"load_balance": {
		"Analyze current traffic distribution",
		"Calculate optimal load distribution",
		"Update load balancer configuration",
		"Verify traffic redistribution",
		"Monitor performance impact",
	},
	"scale_resources": {
		"Assess current resource utilization",
		"Calculate required scaling factor",
		"Provision additional resources",
		"Update service configuration",
		"Validate scaling results",
	},
	"restart_service": {
		"Prepare service for restart",
		"Gracefully stop service",
		"Restart service components",
		"Verify service health",
		"Resume normal operations",
	},
	"reroute_traffic": {
		"Identify alternative paths",
		"Update routing tables",
		"Redirect traffic flows",
		"Monitor path performance",
		"Optimize routing decisions",
	},
	"update_config": {
		"Backup current configuration",
		"Validate new configuration",
		"Apply configuration updates",
		"Restart affected services",
		"Verify configuration changes",
	},
	"emergency_maintenance": {
		"Activate emergency protocols",
		"Isolate affected components",
		"Perform emergency repairs",
		"Test component functionality",
		"Restore normal operations",
	},
}

var rollbackSteps = []string{
	"Capture current state",
	"Revert configuration changes",
	"Restore previous routing",
	"Verify service health",
}

// horizonFactor scales failure probability with the look-ahead window.
var horizonFactor = map[string]float64{
	"1hour":   0.5,
	"6hours":  0.8,
	"24hours": 1.0,
	"3days":   1.3,
	"1week":   1.6,
	"1month":  2.0,
}

// horizonHours bounds predicted incident times.
var horizonHours = map[string]int{
	"1hour":   1,
	"6hours":  6,
	"24hours": 24,
	"3days":   72,
	"1week":   168,
	"1month":  720,
}

var telemetryMetricNames = []string{
	"throughput", "latency", "packet_loss", "error_rate",
	"cpu_utilization", "memory_utilization", "active_sessions", "signal_strength",
}

var granularities = []string{"realtime", "1min", "5min", "15min", "1hour"}

var aggregationMinutes = map[string]int{
	"raw": 1, "1min": 1, "5min": 5, "15min": 15, "1hour": 60, "1day": 1440,
}

var historicalMetricNames = []string{"throughput", "latency", "error_rate", "cpu_utilization", "memory_utilization"}

var slaTargets = map[string]float64{
	"enterprise": 0.9999,
	"premium":    0.999,
	"standard":   0.995,
}

var slaTiers = []string{"enterprise", "premium", "standard"}

// slaServices maps service_type query values to service names, in listing order.
type slaService struct{ key, name string }

var slaServices = []slaService{
	{"5g", "5G Core Network"},
	{"edge_compute", "Edge Computing"},
	{"iot", "IoT Platform"},
	{"vpn", "Enterprise VPN"},
}
