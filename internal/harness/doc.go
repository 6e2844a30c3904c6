// Package harness runs scripted investigations.
//
// A scenario generates a case from a seed, runs a list of investigation
// steps against it and checks the result of the final arrest.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: witness_cctv
//	description: "Testimony backed by footage"
//	seed: 11
//	case_id: case_11          # optional, defaults to case_<seed>
//	deadline_delta: 0         # optional, shortens every lead
//	limits: {time: 8, pressure: 6}
//	standing: {trust: 3, pressure: 0, cooperation: 1.0}   # optional
//	steps:
//	  - action: interview
//	    target: witness
//	    approach: baseline      # baseline | pressure | theme
//	  - action: request_cctv
//	  - action: operation
//	    target: offender
//	    operation: warrant      # warrant | stakeout | bait | raid
//	    warrant: search
//	    evidence: [testimonial, cctv]
//	  - action: set_hypothesis
//	    target: offender
//	    claims: [presence, opportunity]
//	    evidence: [witness_statement, cctv_report]
//	  - action: arrest
//	expect:
//	  tier: shaky
//	  outcome: partial
//	  evidence_types: [testimonial, cctv]
//	  reading: commit         # profiling reading after the last step
//
// # Targets
//
// A target names a case role (witness, offender, victim), the weapon, or a
// literal UUID.
//
// # Evidence Selectors
//
// Each evidence entry selects collected items: an evidence type
// (testimonial, cctv, forensics), a detail kind (witness_statement,
// cctv_report, access_log, forensics_result, forensic_observation) or a
// literal UUID. Selectors are applied in order, each adding every matching
// item not yet cited, and the selection is cut to the hypothesis maximum.
//
// Claims may be the single entry "supported", which picks every claim the
// selected evidence supports (presence when none does).
//
// # Campaigns
//
// RunCampaign runs scenarios as consecutive cases of one career. The world
// state decides each case's opening standing and lead deadlines, and each
// closed case shifts it in turn. A scenario's own standing is ignored there.
//
// # Deterministic Testing
//
// Every run regenerates the case from its seed, so identical scenarios
// produce identical results and truth fingerprints.
package harness
