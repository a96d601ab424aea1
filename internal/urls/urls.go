package urls

// Documentation URLs for guides and troubleshooting.
// All URLs point to the documentation site at https://probe.rs/docs/

// ProbeSetup is the probe setup guide, covering udev rules,
// drivers, and wiring for the supported debug probes.
const ProbeSetup = "https://probe.rs/docs/getting-started/probe-setup/"

// TargetSupport lists the supported target chips and explains
// how chip names are matched against the built-in catalog.
const TargetSupport = "https://probe.rs/docs/knowledge-base/cmsis-packs/"

// TroubleshootingGuide provides solutions to common issues
// encountered when attaching to probes and targets.
const TroubleshootingGuide = "https://probe.rs/docs/knowledge-base/troubleshooting/"
