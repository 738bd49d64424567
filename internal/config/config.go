package config

// ConfigFilePath is the INI file holding Jira credentials and server
// settings. The path is expanded with os.ExpandEnv before loading, so
// $HOME resolves at runtime.
//
// Expected [default] keys: JIRA_URL, JIRA_TOKEN, JIRA_EMAIL (optional,
// enables Basic auth with an API token for Jira Cloud), TOOLS_ADDR.
const ConfigFilePath = "$HOME/.config/jira-bridge/config.ini"
