// Package config loads and watches the analyzer configuration file.
//
// Top-level types:
//   - Config{Analysis, Report, Export, MQTT, Inbox} - full tree parsed from YAML
//   - Analysis - sample_rate, rolling_window, spectrogram_segment, max_peaks,
//     peak_height_ratio; the only section the core stages read
//   - ReportConfig, ExportConfig - output paths
//   - MQTTConfig - broker, topic, client_id, qos, credentials from env vars
//   - InboxConfig - dir, pattern, workers, settle for watch mode
//
// Load(path) applies defaults (100 Hz, 100-sample window, 256-sample
// spectrogram segment, 10 peaks at 10% height), unmarshals YAML over them and
// validates. Invalid values surface as *ConfigurationError.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It re-adds the watch after every
// event so atomic-save editors (rename then create) keep working.
package config
