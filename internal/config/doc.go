// Package config loads obrtrace configuration.
//
// Values are layered: Default, then an optional YAML file, then environment
// variables prefixed with OBR (OBR_LOGGING_LEVEL, OBR_SWEEP_ROOT,
// OBR_SWEEP_SUFFIXES=Upper,Lower, OBR_EXPORT_XLSX, ...). Probes can only be
// set from the file:
//
//	sweep:
//	  root: data/smf/strain
//	  order: [00me, 05me, 10me, 15me]
//	  level_unit: me
//	  probes:
//	    - {name: Single Point, suffix: Lower, kind: point, x: 2.30}
//	    - {name: Mean, suffix: Lower, kind: mean, x: 2.22, x_max: 2.35}
package config
