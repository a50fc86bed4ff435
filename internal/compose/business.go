package compose

import (
	"fmt"
	"math"
	"slices"

	"netintel-sim/internal/scenario"
	"netintel-sim/internal/telemetry"
)

// customersPerRegion sizes the customer base of one affected region.
const customersPerRegion = 100000

// ImpactAssessment prices a service disruption across the affected regions.
// The impact multiplier comes from the scenario of those regions' mean score.
func (c *Composer) ImpactAssessment(req ImpactRequest) (ImpactAssessment, error) {
	s := req.Scenario
	if len(s.AffectedRegions) == 0 {
		return ImpactAssessment{}, invalid("scenario.affected_regions must not be empty")
	}
	if s.ServiceDegradation < 0 || s.ServiceDegradation > 1 {
		return ImpactAssessment{}, invalid("scenario.service_degradation must be within [0,1]")
	}
	if s.DurationHours <= 0 {
		return ImpactAssessment{}, invalid("scenario.duration_hours must be positive")
	}
	regions := make([]telemetry.Region, 0, len(s.AffectedRegions))
	for _, id := range s.AffectedRegions {
		r, err := c.region(id)
		if err != nil {
			return ImpactAssessment{}, err
		}
		regions = append(regions, r)
	}
	mult := c.catalog.Get(c.scopeTag(regions)).ImpactMultiplier
	customers := int(float64(customersPerRegion*len(regions)) * s.ServiceDegradation * mult)

	c.mu.Lock()
	defer c.mu.Unlock()
	return ImpactAssessment{
		AssessmentID:           c.newID("impact", 12),
		Scenario:               fmt.Sprintf("Service degradation in %d regions", len(regions)),
		TotalRevenueImpact:     round(float64(customers)*0.05*s.DurationHours, 2),
		CustomersAffected:      customers,
		ServiceCreditsExposure: round(float64(customers)*2.5, 2),
		ReputationRiskScore:    round(math.Min(100, s.ServiceDegradation*100*mult), 1),
		RecoveryTimeEstimate:   fmt.Sprintf("%d hours", 1+c.rng.Intn(6)),
		MitigationCosts:        round(c.between(10000, 100000)*mult, 2),
	}, nil
}

// SLAStatus reports availability against tier targets. serviceTypes is an
// optional comma separated filter of 5g, edge_compute, iot and vpn.
func (c *Composer) SLAStatus(customerTier, serviceTypes string) (SLAStatus, error) {
	if customerTier != "" {
		if _, ok := slaTargets[customerTier]; !ok {
			return SLAStatus{}, invalid("customer_tier %q must be one of %v", customerTier, slaTiers)
		}
	}
	want := splitList(serviceTypes)
	for _, st := range want {
		if !slices.ContainsFunc(slaServices, func(s slaService) bool { return s.key == st }) {
			return SLAStatus{}, invalid("unknown service_type %q", st)
		}
	}
	tag := c.networkTag()
	def := c.catalog.Get(tag)
	strained := tag == scenario.Degraded || tag == scenario.Critical

	c.mu.Lock()
	defer c.mu.Unlock()
	out := SLAStatus{OverallCompliance: def.SLACompliance, ServiceLevels: []ServiceLevel{}}
	for _, svc := range slaServices {
		if len(want) > 0 && !slices.Contains(want, svc.key) {
			continue
		}
		tier := customerTier
		if tier == "" {
			tier = c.pick(slaTiers)
		}
		target := slaTargets[tier]
		actual := target * c.between(0.98, 1.002)
		if strained {
			actual *= c.between(0.95, 0.99)
		}
		status := "compliant"
		switch {
		case actual < target*0.98:
			status = "violated"
		case actual < target*0.995:
			status = "at_risk"
		}
		out.ServiceLevels = append(out.ServiceLevels, ServiceLevel{
			ServiceName:        svc.name,
			CustomerTier:       tier,
			TargetAvailability: target,
			ActualAvailability: round(math.Min(1, actual), 5),
			ComplianceStatus:   status,
		})
	}
	return out, nil
}
