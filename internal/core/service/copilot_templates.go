package service

import (
	"time"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

const replyTroubleshooting = `**Troubleshooting Guide**

🔍 **Diagnostic Steps:**
1. Check system status indicators
2. Review recent alarm history
3. Verify sensor readings are within normal range
4. Inspect for visible damage or leaks

⚠️ **Safety First:**
• Ensure proper lockout/tagout procedures
• Wear required PPE (safety glasses, gloves)
• Verify area is clear of personnel

🔧 **Tools Required:**
• Multimeter for electrical testing
• Pressure gauges for hydraulic systems
• Basic hand tools (screwdrivers, wrenches)

📋 **Next Steps:**
1. Document all findings in CMMS
2. Order replacement parts if needed
3. Contact supervisor if issue persists

**Need specific part numbers or detailed procedures? Ask me about the exact asset and error code.**`

const replyPMSchedule = `**Today's PM Schedule - Your Assignments**

🔧 **High Priority (Due Today):**
• **Chiller-001**: Quarterly inspection (Est. 3 hours)
  - Filter replacement
  - Refrigerant level check
  - Electrical connections inspection

• **Pump-005**: Monthly lubrication (Est. 1 hour)
  - Bearing lubrication
  - Coupling alignment check

📅 **This Week:**
• Generator load bank test (Wednesday, 4 hours)
• Compressor belt inspection (Friday, 2 hours)

**Parts Pre-staged:**
✅ Filters (Rack B-12)
✅ Lubricants (Tool room)
⚠️ Generator test load bank (Coordinate with Facilities)

**Questions? Need safety procedures or part locations? Just ask!**`

const replyKPIDashboard = `**Maintenance Performance Dashboard - Current Month**

📊 **Key Performance Indicators:**
• **Overall Equipment Effectiveness (OEE):** 78% (Target: 85%)
• **Planned vs Reactive Maintenance:** 72:28 (Target: 85:15)
• **PM Compliance:** 91% (Target: 95%)
• **MTBF:** 342 hours (↑12% vs last month)
• **Work Order Completion Rate:** 87% on-time

⚠️ **Areas Requiring Attention:**
1. **Reactive Maintenance High** (28% vs 15% target)
   - Root cause: Delayed PM on aging assets
   - **Action:** Implement condition monitoring on 5 critical assets

2. **OEE Below Target** (78% vs 85%)
   - Primary driver: Unplanned downtime
   - **Impact:** $125K lost production value this month

💡 **Strategic Recommendations:**
• **Short-term:** Increase PM frequency on assets >8 years old
• **Medium-term:** Invest in predictive maintenance technology ($85K, 14-month payback)
• **Long-term:** Phase replacement of bottom 10% performing assets

**Benchmark Comparison:**
Your facility ranks in 65th percentile vs industry peers. Top quartile facilities achieve 90%+ PM compliance.

**Budget Impact:** Current trajectory suggests $45K budget overrun in Q4 without intervention.`

const replyRiskForecast = `**30-Day Failure Risk Forecast**

🚨 **High Risk Assets (>80% failure probability):**
1. **HVAC-Chiller-001** (89% risk)
   - **Failure window:** 7-14 days
   - **Impact:** $15K/day production loss
   - **Recommendation:** Schedule emergency maintenance this weekend

2. **Pump-Water-007** (82% risk)
   - **Failure window:** 2-3 weeks
   - **Impact:** Secondary cooling system offline
   - **Recommendation:** Order replacement pump now (5-day lead time)

⚠️ **Medium Risk Assets (50-80% risk):**
• Generator-002 (67% risk) - Schedule load test
• Compressor-005 (58% risk) - Vibration analysis recommended

💰 **Financial Impact Avoidance:**
• **Proactive intervention cost:** $12K
• **Reactive failure cost (estimated):** $89K
• **Net savings:** $77K

🎯 **Recommended Actions:**
1. **Immediate:** Authorize emergency PM budget ($12K)
2. **This week:** Meet with operations to schedule downtime windows
3. **Next month:** Review and adjust PM frequencies based on risk scores

**Need detailed maintenance plans or want to simulate different scenarios?**`

const replySchedulingPlan = `**Optimal Maintenance Scheduling - Next 30 Days**

📅 **Recommended Schedule:**

**Week 1 (Sept 23-29):**
• **Monday:** Routine PM tasks (3 technicians, 8 hours)
• **Wednesday:** Chiller-001 emergency maintenance (2 specialists, 6 hours)
  - **Best window:** 6 AM - 12 PM (low production demand)
  - **Resource:** HVAC specialist + apprentice
• **Friday:** Generator load testing (1 technician, 4 hours)

**Week 2 (Sept 30 - Oct 6):**
• **Tuesday:** Pump replacement - Water-007 (3 technicians, 8 hours)
  - **Parts arrival:** Monday Sept 30
  - **Production impact:** Minimal (backup system available)

**Week 3-4:** Focus on quarterly inspections (12 assets scheduled)

🔧 **Resource Optimization:**
• **Current utilization:** 78% (optimal: 80-85%)
• **Skills gaps:** Need 1 additional electrical specialist
• **Overtime projection:** 15 hours (within budget)

📊 **Scheduling Constraints:**
• Production schedule: High demand Tues-Thurs
• **Optimal maintenance windows:** Weekends, early mornings
• **Emergency slots:** Wednesday 2-6 PM reserved

💡 **Efficiency Improvements:**
1. **Batch similar tasks** - Save 12% travel time
2. **Pre-stage materials** - Reduce job time by 15%
3. **Cross-train technicians** - Improve flexibility

**Want me to adjust for specific constraints or simulate different scenarios?**`

// replyGeneric takes the raw query and the persona name.
const replyGeneric = `I understand you're asking about "%s". Based on your role as %s, I can help you with:

**Immediate Actions:**
• Asset risk analysis and recommendations
• Maintenance scheduling and resource planning
• Performance benchmarking and KPI tracking
• Cost optimization opportunities

**Long-term Planning:**
• Capital replacement strategies
• Predictive maintenance implementation
• Workforce development and training needs
• Budget forecasting and scenario planning

**Could you be more specific about:**
- Which assets or systems you're interested in?
- What time frame you're planning for?
- Any specific performance metrics or concerns?

I have access to your complete asset database, maintenance history, and industry benchmarks to provide targeted recommendations.`

const historyE17Analysis = `**Error Code E17 Analysis - Machine A (Centrifugal Pump)**

**Root Cause:** Pump output pressure below threshold (< 145 PSI, normal: 150-175 PSI)

**Likely Causes (ranked by probability):**
1. **Intake Filter Clog** (65% probability)
   - Last filter change: 45 days ago (due every 30 days)
   - Pressure differential: 8 PSI (normal: <3 PSI)

2. **Impeller Wear** (25% probability)
   - Asset age: 5.1 years
   - Recent vibration increase: 0.15 mm/s → 0.22 mm/s

3. **Seal Leak** (10% probability)
   - Minor fluid leak detected in last inspection

**Immediate Actions:**
🔧 **Step 1:** Check and replace intake filter
   - **Safety:** Lock out electrical supply
   - **Tools needed:** Filter wrench, new filter element
   - **Time:** 15 minutes
   - **Parts:** Filter P/N: GF-500-30 (3 available in inventory)

🔧 **Step 2:** If pressure remains low, inspect impeller
   - **Procedure:** SOP-PMP-003 (Impeller Inspection)
   - **Time:** 45 minutes
   - **Specialist required:** Level 2 Mechanical Tech

📋 **Documentation:** Log findings in CMMS Work Order #WO-25-8834

**Parts Availability:**
✅ Intake Filter (3 in stock) - $85
⚠️ Impeller Assembly - Not in stock
   - **Lead Time:** 5-7 days from Grundfos
   - **Cost:** $850
   - **Suggested Action:** Order now as backup`

const historyPlantAReport = `**Plant A Maintenance Performance Summary (March - September 2025)**

📊 **Key Metrics:**
• **Downtime:** 127 hours (↑15% vs. previous 6 months)
• **PM Compliance:** 92% (↓3% vs. target of 95%)
• **Reactive Maintenance:** 28% of total work (↑8% - above recommended 15%)
• **MTTR:** 4.2 hours (↑0.8 hours)
• **Work Order Completion:** 89% on-time

📈 **Trend Analysis:**
**Downtime by Month:**
• March: 18 hours
• April: 15 hours
• May: 25 hours ⚠️
• June: 22 hours
• July: 28 hours ⚠️
• August: 19 hours
• September: 20 hours

**Primary Drivers of Increased Downtime:**
1. **Motor Failures** (35% of downtime)
   - Assets affected: Pump-003, Compressor-007, Fan-012
   - **Root cause:** Bearing degradation due to high ambient temperatures
   - **Recommendation:** Increase cooling system maintenance

2. **Unplanned HVAC Issues** (25% of downtime)
   - Chiller-001: 18-hour emergency repair (May)
   - **Impact:** Production line shutdown, $45K lost revenue
   - **Action taken:** Upgraded to Prescriptive Maintenance monitoring

3. **Control System Faults** (20% of downtime)
   - Legacy PLC systems showing increased failure rates
   - **Recommendation:** Phase replacement over next 12 months

💡 **Key Recommendations:**
1. **Immediate:** Schedule overdue PM on Pump-003 and Compressor-007
2. **Short-term:** Increase vibration monitoring frequency on critical motors
3. **Long-term:** Implement condition-based maintenance for aging assets

**Cost Impact:**
• Maintenance costs: $125K (within budget)
• Lost production value: $89K (↑45%)
• **ROI Opportunity:** Estimated $65K annual savings with improved PM compliance`

var quickActionsByPersona = map[domain.Persona][]domain.QuickAction{
	domain.PersonaTechnician: {
		{Label: "Error code troubleshooting", Query: "Why is [ASSET] showing error code [CODE]?"},
		{Label: "Step-by-step repair guidance", Query: "Walk me through replacing [COMPONENT] on [ASSET]"},
		{Label: "Find SOP/Manual", Query: "Show me the SOP for [TASK]"},
		{Label: "Today's PM tasks", Query: "What preventive maintenance is due today?"},
	},
	domain.PersonaManager: {
		{Label: "Performance summary", Query: "Show me maintenance KPIs for [TIMEFRAME]"},
		{Label: "Asset predictions", Query: "Which assets are likely to fail in next 30 days?"},
		{Label: "Resource planning", Query: "What's the optimal maintenance schedule for next month?"},
		{Label: "Cost optimization", Query: "Which 5 assets should we replace next year?"},
	},
	domain.PersonaPlanner: {
		{Label: "Schedule optimization", Query: "When should I schedule downtime for [ASSET]?"},
		{Label: "Workload analysis", Query: "Show technician availability and workload"},
		{Label: "Budget planning", Query: "Project maintenance costs for Q4"},
		{Label: "Risk analysis", Query: "Show critical assets requiring attention"},
	},
}

// seedHistory is the sample transcript every new conversation opens with.
// Message ids run 1 through 4.
func seedHistory(now time.Time) []domain.ChatMessage {
	return []domain.ChatMessage{
		{
			ID:        1,
			Role:      domain.MessageFromUser,
			Content:   "Why is Machine A showing error code E17?",
			Timestamp: now.Add(-600 * time.Second),
			Type:      domain.ResponseQuery,
		},
		{
			ID:          2,
			Role:        domain.MessageFromAssistant,
			Content:     historyE17Analysis,
			Timestamp:   now.Add(-580 * time.Second),
			Type:        domain.ResponseAnalysis,
			Attachments: []string{"SOP-PMP-003.pdf", "Parts_Catalog_Grundfos.pdf"},
		},
		{
			ID:        3,
			Role:      domain.MessageFromUser,
			Content:   "Show me maintenance performance for Plant A over last 6 months",
			Timestamp: now.Add(-400 * time.Second),
			Type:      domain.ResponseQuery,
		},
		{
			ID:        4,
			Role:      domain.MessageFromAssistant,
			Content:   historyPlantAReport,
			Timestamp: now.Add(-380 * time.Second),
			Type:      domain.ResponseReport,
		},
	}
}
