// Package config loads engine registry configuration.
//
// Two file formats are supported. INI files (up.ini, .up.ini, .uprc)
// declare engines and meta-engines in "[engine <name>]" and
// "[meta-engine <name>]" sections carrying module_name and class_name
// keys, plus an optional "[global]" section whose engine_preference_list
// reorders capability searches. YAML manifests declare a single engine
// each and are convenient for engine packages shipping a self-describing
// file.
//
// The INI search order walks the working directory and its ancestors, then
// the home directory; the first existing file wins. A Loader can also
// watch a file with fsnotify and re-apply it on change.
package config
