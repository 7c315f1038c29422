// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exception

const IncorrectParamType = "5"
const IncorrectParamTypeMsg = "$param parameter should be $type"

const InvalidParameterValue = "6"
const InvalidParameterValueMsg = "Value $value is not allowed for parameter $param"

const InvalidURLEscape = "7"
const InvalidURLEscapeMsg = "Failed to unescape parameter $param"

const RequiredParamsMissing = "8"
const RequiredParamsMissingMsg = "Required parameters are missing: $params"

const BadRequestBody = "9"
const BadRequestBodyMsg = "Failed to decode body"

const InsufficientPrivileges = "10"
const InsufficientPrivilegesMsg = "You don't have enough privileges to perform this operation"

const IncorrectMultipartFile = "11"
const IncorrectMultipartFileMsg = "Incorrect multipart file"

const TestCaseNotFound = "100"
const TestCaseNotFoundMsg = "Test case $testCaseId not found"

const VersionNotFound = "101"
const VersionNotFoundMsg = "Version $version of test case $testCaseId not found"

const VersionFileNotFound = "102"
const VersionFileNotFoundMsg = "Stored file for version $version of test case $testCaseId not found"

const TestCaseIdMissing = "103"
const TestCaseIdMissingMsg = "Test case table has no TEST CASE NUMBER in its first step"

const NoVersionsExist = "104"
const NoVersionsExistMsg = "Test case $testCaseId has no versions yet"

const UnsupportedFileExtension = "110"
const UnsupportedFileExtensionMsg = "File extension $extension is not supported, expected .xlsx or .xls"

const RequiredColumnsMissing = "111"
const RequiredColumnsMissingMsg = "Table is missing required columns: $columns"

const EmptyTestCaseTable = "112"
const EmptyTestCaseTableMsg = "Test case table has no steps"

const VersionControlFailure = "120"
const VersionControlFailureMsg = "Version control operation $operation failed for test case $testCaseId"

const HistoryCorrupted = "121"
const HistoryCorruptedMsg = "Version history for test case $testCaseId could not be read"

const DocumentUploadFailed = "122"
const DocumentUploadFailedMsg = "Failed to upload version $version of test case $testCaseId to document storage"

const ExportFailed = "123"
const ExportFailedMsg = "Failed to export version $version of test case $testCaseId"

const MetadataNotFound = "130"
const MetadataNotFoundMsg = "Metadata for test case $testCaseId not found"

const CleanupResultNotFound = "140"
const CleanupResultNotFoundMsg = "Cleanup run $id not found"
